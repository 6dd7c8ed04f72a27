package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-andiamo/kdbxinfo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdbxinfo.log")
	cfg := config.Default().Log
	cfg.File = path
	var stderr bytes.Buffer
	logger, closer, err := newLogger(cfg, &stderr)
	require.NoError(t, err)
	logger.Info("hello", "answer", 42)
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"answer":42`)
	assert.NotContains(t, string(data), "hidden")
	assert.Empty(t, stderr.String())
}

func TestNewLogger_Stderr(t *testing.T) {
	var stderr bytes.Buffer
	logger, closer, err := newLogger(config.LogConfig{Level: "warn"}, &stderr)
	require.NoError(t, err)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NoError(t, closer.Close())
	assert.NotContains(t, stderr.String(), "quiet")
	assert.Contains(t, stderr.String(), `"msg":"loud"`)
	assert.False(t, isTerminal(&stderr))
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, _, err := newLogger(config.LogConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Error(t, err)
}
