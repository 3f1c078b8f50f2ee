package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "info", Console: &buf})
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("hidden")
	logger.WithField("path", "a.fmu").Info("inspected")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "inspected")
	assert.Contains(t, out, "path=a.fmu")
	assert.Equal(t, "", logger.FilePath())
}

func TestNewLogger_DefaultsAndInvalidLevel(t *testing.T) {
	logger, err := NewLogger(Config{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	_, err = NewLogger(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewLogger_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fmiviewer.log")
	var console bytes.Buffer
	logger, err := NewLogger(Config{Level: "debug", OutputFile: path, JSONFormat: true, Console: &console})
	require.NoError(t, err)

	logger.WithFields(logrus.Fields{"variables": 4}).Debug("parsed")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "parsed", entry["msg"])
	assert.Equal(t, float64(4), entry["variables"])
	assert.Equal(t, strings.TrimSpace(console.String()), strings.TrimSpace(string(data)))
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 200), 0644))
	require.NoError(t, os.WriteFile(path+".1", []byte("older"), 0644))

	logger, err := NewLogger(Config{OutputFile: path, MaxSize: 100, MaxBackups: 3, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	defer logger.Close()

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 200)

	older, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "older", string(older))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestDebugConfig(t *testing.T) {
	var buf bytes.Buffer
	base := Config{Level: "warn", OutputFile: "/var/log/fmiviewer.log", JSONFormat: true, Console: &buf}

	cfg := DebugConfig(base)
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.AddSource)
	assert.True(t, cfg.JSONFormat)
	assert.Equal(t, "/var/log/fmiviewer.log", cfg.OutputFile)
	assert.Same(t, &buf, cfg.Console.(*bytes.Buffer))
	assert.Equal(t, "warn", base.Level)
}
