package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_FileLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "console.log")

	logger, err := New(logPath, LevelDebug)
	require.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info %d", 2)
	logger.Warn("warning message")
	logger.Error("error message")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	out := string(content)
	require.Contains(t, out, "DEBUG: debug message")
	require.Contains(t, out, "INFO: info 2")
	require.Contains(t, out, "WARN: warning message")
	require.Contains(t, out, "ERROR: error message")
}

func TestLogger_FilePermissions(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	require.NoError(t, os.WriteFile(logPath, []byte("old\n"), 0644))

	logger, err := New(logPath, LevelInfo)
	require.NoError(t, err)
	logger.Info("appended")
	require.NoError(t, logger.Close())

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "old\n"))
	require.Contains(t, string(content), "INFO: appended")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "WARN: shown")
	require.Contains(t, out, "ERROR: shown too")

	logger.SetLevel(LevelDebug)
	logger.Debug("now visible")
	require.Contains(t, buf.String(), "DEBUG: now visible")
}

func TestLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)
	logger.SetEnabled(false)
	logger.Error("dropped")
	require.Empty(t, buf.String())
}

func TestLogger_TrailingNewlineTrimmed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)
	logger.Info("line\n")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)

	w := logger.Writer(LevelInfo)
	n, err := w.Write([]byte("from writer"))
	require.NoError(t, err)
	require.Equal(t, len("from writer"), n)
	require.Contains(t, buf.String(), "INFO: from writer")
}

func TestLogger_NilSafe(t *testing.T) {
	var logger *Logger
	require.NoError(t, logger.Close())
	logger.SetEnabled(true)
	logger.Info("no panic")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"nonsense", LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestDefaultLogger(t *testing.T) {
	SetDefault(nil)
	Info("nobody listening")

	var buf bytes.Buffer
	SetDefault(NewWriter(&buf, LevelDebug))
	t.Cleanup(func() { SetDefault(nil) })

	Warn("via default %s", "logger")
	require.Contains(t, buf.String(), "WARN: via default logger")
	require.NotNil(t, GetLogger())
}

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewWriter(&a, LevelDebug), NewWriter(&b, LevelError), NopLogger{}}

	m.Info("info")
	m.Error("boom")
	require.NoError(t, m.Close())

	require.Contains(t, a.String(), "INFO: info")
	require.Contains(t, a.String(), "ERROR: boom")
	require.NotContains(t, b.String(), "INFO")
	require.Contains(t, b.String(), "ERROR: boom")
}
