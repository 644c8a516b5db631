package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newAppLogger(&buf, nil, LogLevelWarn)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn", "key", "value")
	l.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "warn: shown warn key=value")
	assert.Contains(t, out, "error: shown error")
	assert.False(t, l.IsDebug())
}

func TestAppLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := newAppLogger(&buf, nil, LogLevelDebug)

	l.Info("Saved", "path", "/tmp/my file.json", "note", "a\nb", "dangling")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, `path="/tmp/my file.json"`)
	assert.Contains(t, line, `note="a b"`)
	assert.NotContains(t, line, "dangling")
	assert.True(t, l.IsDebug())
}

func TestAppLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	parent := newAppLogger(&buf, nil, LogLevelInfo)

	child := parent.With("source", "memory")
	child.Info("Loaded profiles", "count", 3)
	parent.Info("Plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "info: Loaded profiles source=memory count=3")
	assert.NotContains(t, lines[1], "source=memory")
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newAuditLogger(&buf, nil)

	l.LogAuth("authenticate", "drake", "invalid_credentials")
	l.LogChange("level_score", "drake", "level", 2, "score", 40)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "op=authenticate user=drake status=invalid_credentials")
	assert.Contains(t, lines[1], "op=level_score user=drake level=2 score=40")
}

func TestNewAuditLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")

	l, err := NewAuditLogger(path)
	require.NoError(t, err)
	l.LogChange("delete", "bob")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "op=delete user=bob")
}

func TestInitialize(t *testing.T) {
	prevApp, prevAudit := App, Audit
	defer func() { App, Audit = prevApp, prevAudit }()

	dir := t.TempDir()
	appPath := filepath.Join(dir, "app.log")
	require.NoError(t, Initialize(filepath.Join(dir, "audit.log"), appPath, LogLevelDebug))
	defer App.Close()

	App.Debug("hello", "k", "v")

	data, err := os.ReadFile(appPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug: hello k=v")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLevel(" warn "))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("verbose"))
	assert.Equal(t, LogLevelInfo, ParseLevel(""))
}

type countingCloser struct {
	closes int
}

func (c *countingCloser) Close() error {
	c.closes++
	return nil
}

func TestAuditLoggerClose(t *testing.T) {
	c := &countingCloser{}
	l := newAuditLogger(io.Discard, c)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.Equal(t, 1, c.closes)
}

func TestInitializeClosesPreviousLoggers(t *testing.T) {
	prevApp, prevAudit := App, Audit
	defer func() { App, Audit = prevApp, prevAudit }()

	auditCloser, appCloser := &countingCloser{}, &countingCloser{}
	Audit = newAuditLogger(io.Discard, auditCloser)
	App = newAppLogger(io.Discard, appCloser, LogLevelInfo)

	require.NoError(t, Initialize("", "", LogLevelInfo))
	assert.Equal(t, 1, auditCloser.closes)
	assert.Equal(t, 1, appCloser.closes)
}
