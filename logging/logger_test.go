package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"all":      LevelAll,
		"DEBUG":    LevelDebug,
		"Info":     LevelInfo,
		"warning":  LevelWarning,
		"warn":     LevelWarning,
		"error":    LevelError,
		"critical": LevelCritical,
		"NONE":     LevelNone,
		" 3 ":      slog.Level(3),
		"-2":       slog.Level(-2),
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "ALL", LevelName(LevelAll))
	assert.Equal(t, "DEBUG", LevelName(LevelDebug))
	assert.Equal(t, "INFO", LevelName(LevelInfo+1))
	assert.Equal(t, "WARNING", LevelName(LevelWarning))
	assert.Equal(t, "ERROR", LevelName(LevelError))
	assert.Equal(t, "CRITICAL", LevelName(LevelCritical))
	assert.Equal(t, "NONE", LevelName(LevelNone))
	assert.Equal(t, "DEBUG..ERROR", Range{LevelDebug, LevelError}.String())
}

func TestConsoleRange(t *testing.T) {
	var buf bytes.Buffer
	log := New("ua", WithConsole(&buf), WithConsoleRange(LevelInfo, LevelWarning))
	log.Debug("dropped debug")
	log.Info("kept info")
	log.Warn("kept warning")
	log.Error("dropped error")
	log.Critical("dropped critical")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "level=INFO msg=\"kept info\" logger=ua")
	assert.Contains(t, out, "level=WARNING msg=\"kept warning\"")
	assert.NotContains(t, out, "time=")

	buf.Reset()
	log.SetConsoleRange(LevelError, LevelNone)
	assert.Equal(t, Range{LevelError, LevelNone}, log.ConsoleRange())
	log.Info("dropped")
	log.Critical("critical now")
	assert.Equal(t, "level=CRITICAL msg=\"critical now\" logger=ua\n", buf.String())
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("", WithConsole(&buf))
	assert.Equal(t, LevelAll, log.Level())
	log.SetLevel(LevelWarning)
	log.Info("dropped")
	log.Warn("kept")
	assert.Equal(t, "level=WARNING msg=kept\n", buf.String())

	log.SetLevel(LevelNone)
	log.Critical("dropped")
	assert.Equal(t, "level=WARNING msg=kept\n", buf.String())
}

func TestFileLogging(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	log := New("ua", WithConsole(&buf), WithConsoleRange(LevelAll, LevelInfo), WithFileRange(LevelWarning, LevelNone))
	defer log.Close()

	require.NoError(t, log.SetLogFile(path))
	assert.Equal(t, path, log.LogFile())
	require.NoError(t, log.SetLogFile(path))

	log.Info("to console")
	log.Error("to file", "key", 1)

	assert.Contains(t, buf.String(), "to console")
	assert.NotContains(t, buf.String(), "to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "level=ERROR")
	assert.Contains(t, line, "msg=\"to file\"")
	assert.Contains(t, line, "key=1")
	assert.Contains(t, line, "time=")
	assert.Contains(t, line, "logger_test.go")
	assert.NotContains(t, line, "to console")

	other := filepath.Join(dir, "b.log")
	require.NoError(t, log.SetLogFile(other))
	log.Warn("second file")
	require.NoError(t, log.DisableFileLogging())
	assert.Equal(t, "", log.LogFile())
	log.Warn("no file")

	data, err = os.ReadFile(other)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second file")
	assert.NotContains(t, string(data), "no file")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "second file")

	// reopening appends
	require.NoError(t, log.SetLogFile(path))
	log.Critical("appended")
	require.NoError(t, log.Close())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestDefaultLogFileName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	log := New("tool", WithConsole(&bytes.Buffer{}))
	require.NoError(t, log.SetLogFile(""))
	defer log.Close()
	assert.True(t, strings.HasSuffix(log.LogFile(), "_tool.log"), log.LogFile())
	assert.Equal(t, dir, filepath.Dir(log.LogFile()))
}

func TestChildAndWith(t *testing.T) {
	var buf bytes.Buffer
	log := New("ua", WithConsole(&buf))
	child := log.Child("walk")
	assert.Equal(t, "ua.walk", child.Name())
	child.Info("step", "seg", "a")
	assert.Equal(t, "level=INFO msg=step logger=ua.walk seg=a\n", buf.String())

	buf.Reset()
	log.SetLevel(LevelError)
	child.Info("dropped")
	assert.Empty(t, buf.String())
	log.SetLevel(LevelAll)

	buf.Reset()
	log.With("doc", "x.yaml").WithGroup("path").Info("get", "n", 2)
	assert.Equal(t, "level=INFO msg=get logger=ua doc=x.yaml path.n=2\n", buf.String())
}

func TestWithAttrsFollowFileChanges(t *testing.T) {
	var buf bytes.Buffer
	log := New("ua", WithConsole(&buf)).With("k", "v")
	path := filepath.Join(t.TempDir(), "c.log")
	require.NoError(t, log.SetLogFile(path))
	log.Info("both")
	require.NoError(t, log.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "k=v")
	assert.Contains(t, buf.String(), "k=v")
}

func TestColor(t *testing.T) {
	var buf bytes.Buffer
	log := New("", WithConsole(&buf), WithColor(true))
	log.Error("red")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "level=ERROR msg=red")

	buf.Reset()
	log = New("", WithConsole(&buf))
	log.Error("plain")
	assert.Equal(t, "level=ERROR msg=plain\n", buf.String())
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.False(t, log.Enabled(t.Context(), LevelCritical))
	log.Critical("nothing")
	require.NoError(t, log.Close())
}
