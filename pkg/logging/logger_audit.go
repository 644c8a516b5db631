package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// AuditLogger records profile events, one logfmt line each
type AuditLogger interface {
	// LogAuth logs authentication and registration attempts
	LogAuth(operation string, user string, status string, details ...interface{})
	// LogChange logs a persisted change to a profile
	LogChange(operation string, user string, details ...interface{})
	// Close closes the underlying log file, if any
	Close() error
}

type auditLogger struct {
	logger *log.Logger
	file   io.Closer
}

// NewAuditLogger creates an audit logger appending to logPath.
// An empty path discards all events.
func NewAuditLogger(logPath string) (AuditLogger, error) {
	if logPath == "" {
		return newAuditLogger(io.Discard, nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return newAuditLogger(f, f), nil
}

func newAuditLogger(w io.Writer, closer io.Closer) *auditLogger {
	return &auditLogger{
		logger: log.New(w, "", 0),
		file:   closer,
	}
}

func (l *auditLogger) write(keyvals []interface{}, details []interface{}) {
	l.logger.Printf("%s %s", timestamp(), formatPairs(append(keyvals, details...)))
}

func (l *auditLogger) LogAuth(operation string, user string, status string, details ...interface{}) {
	l.write([]interface{}{"op", operation, "user", user, "status", status}, details)
}

func (l *auditLogger) LogChange(operation string, user string, details ...interface{}) {
	l.write([]interface{}{"op", operation, "user", user}, details)
}

func (l *auditLogger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
