package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	golog "github.com/fclairamb/go-log"
)

var levelOrder = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelPanic: 4,
}

// AppLogger implements the go-log.Logger interface
type AppLogger struct {
	level   LogLevel
	logger  *log.Logger
	writer  io.Closer // nil if logging to stdout
	context []interface{}
}

// NewAppLogger creates a new application logger. An empty logPath logs to stdout.
func NewAppLogger(logPath string, level LogLevel, maxSize int64, verifyInterval time.Duration) (*AppLogger, error) {
	if logPath == "" {
		return newAppLogger(os.Stdout, nil, level), nil
	}

	rw, err := NewRotatingWriter(logPath, maxSize, verifyInterval)
	if err != nil {
		return nil, fmt.Errorf("creating rotating writer: %w", err)
	}
	return newAppLogger(rw, rw, level), nil
}

func newAppLogger(w io.Writer, closer io.Closer, level LogLevel) *AppLogger {
	return &AppLogger{
		level:  level,
		logger: log.New(w, "", 0),
		writer: closer,
	}
}

func (l *AppLogger) shouldLog(level LogLevel) bool {
	return levelOrder[level] >= levelOrder[l.level]
}

func (l *AppLogger) log(level LogLevel, message string, keyvals ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	all := append(append([]interface{}{}, l.context...), keyvals...)
	line := fmt.Sprintf("%s %s: %s", timestamp(), level, message)
	if kv := formatPairs(all); kv != "" {
		line += " " + kv
	}
	l.logger.Print(line)
}

// Debug implements go-log.Logger
func (l *AppLogger) Debug(message string, keyvals ...interface{}) {
	l.log(LogLevelDebug, message, keyvals...)
}

// Info implements go-log.Logger
func (l *AppLogger) Info(message string, keyvals ...interface{}) {
	l.log(LogLevelInfo, message, keyvals...)
}

// Warn implements go-log.Logger
func (l *AppLogger) Warn(message string, keyvals ...interface{}) {
	l.log(LogLevelWarn, message, keyvals...)
}

// Error implements go-log.Logger
func (l *AppLogger) Error(message string, keyvals ...interface{}) {
	l.log(LogLevelError, message, keyvals...)
}

// Panic implements go-log.Logger
func (l *AppLogger) Panic(message string, keyvals ...interface{}) {
	l.log(LogLevelPanic, message, keyvals...)
}

// With returns a logger that prefixes every line with keyvals
func (l *AppLogger) With(keyvals ...interface{}) golog.Logger {
	child := *l
	child.context = append(append([]interface{}{}, l.context...), keyvals...)
	child.writer = nil // owned by the parent
	return &child
}

// IsDebug returns true if the logger is at debug level
func (l *AppLogger) IsDebug() bool {
	return l.level == LogLevelDebug
}

// Close closes the underlying log file, if any
func (l *AppLogger) Close() error {
	if l.writer == nil {
		return nil
	}
	err := l.writer.Close()
	l.writer = nil
	return err
}

var _ golog.Logger = (*AppLogger)(nil)
