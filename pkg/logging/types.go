package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelPanic LogLevel = "panic"
)

// Defaults for file-backed application logs
const (
	DefaultMaxSize        = 10 * 1024 * 1024
	DefaultVerifyInterval = 30 * time.Second
)

var (
	// App is the global application logger
	App *AppLogger
	// Audit is the global profile event logger
	Audit AuditLogger
)

func init() {
	App = newAppLogger(os.Stdout, nil, LogLevelInfo)
	Audit = newAuditLogger(io.Discard, nil)
}

// ParseLevel converts a level name, defaulting to info for unknown names
func ParseLevel(s string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	case LogLevelPanic:
		return LogLevelPanic
	default:
		return LogLevelInfo
	}
}

// Initialize sets up the global loggers, closing the ones they replace.
// Empty paths mean stdout for the application log and no audit log.
func Initialize(auditLogPath, appLogPath string, level LogLevel) error {
	if level == "" {
		level = LogLevelInfo
	}

	newAudit, err := NewAuditLogger(auditLogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}

	newApp, err := NewAppLogger(appLogPath, level, DefaultMaxSize, DefaultVerifyInterval)
	if err != nil {
		newAudit.Close()
		return fmt.Errorf("failed to initialize app logger: %w", err)
	}

	prevAudit, prevApp := Audit, App
	Audit = newAudit
	App = newApp
	if prevAudit != nil {
		prevAudit.Close()
	}
	if prevApp != nil {
		prevApp.Close()
	}
	return nil
}

// formatValue formats a value for logfmt, quoting if necessary
func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if s == "" || strings.ContainsAny(s, " =\"") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}

// formatPairs renders keyvals as space-separated key=value pairs.
// A trailing key without a value is dropped.
func formatPairs(keyvals []interface{}) string {
	var parts []string
	for i := 0; i+1 < len(keyvals); i += 2 {
		parts = append(parts, fmt.Sprintf("%s=%s", toString(keyvals[i]), formatValue(toString(keyvals[i+1]))))
	}
	return strings.Join(parts, " ")
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.Join(strings.Fields(fmt.Sprintf("%v", v)), " ")
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05 -0700")
}
