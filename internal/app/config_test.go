package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		cfg, err := NewConfig(Config{Command: "plan", ManifestPath: "service.yaml"})
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, "yaml", cfg.OutputFormat)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("invalid command", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "apply", ManifestPath: "service.yaml"})
		assert.ErrorContains(t, err, "Command must be 'validate' or 'plan'")
	})

	t.Run("missing manifest path", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "plan"})
		assert.ErrorContains(t, err, "ManifestPath is a required")
	})

	t.Run("invalid output format", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "plan", ManifestPath: "x", OutputFormat: "xml"})
		assert.ErrorContains(t, err, "invalid output: must be 'yaml' or 'json'")
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "plan", ManifestPath: "x", LogFormat: "logfmt"})
		assert.ErrorContains(t, err, "invalid log-format: must be 'text' or 'json'")
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := NewConfig(Config{Command: "plan", ManifestPath: "x", LogLevel: "trace"})
		assert.ErrorContains(t, err, "invalid log-level")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("level filters records", func(t *testing.T) {
		cfg, err := NewConfig(Config{Command: "plan", ManifestPath: "x", LogLevel: "warn"})
		require.NoError(t, err)

		var buf bytes.Buffer
		logger := newLogger(cfg, &buf)
		logger.Info("dropped")
		logger.Warn("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("json format emits json", func(t *testing.T) {
		cfg, err := NewConfig(Config{Command: "plan", ManifestPath: "x", LogFormat: "json"})
		require.NoError(t, err)

		var buf bytes.Buffer
		newLogger(cfg, &buf).Info("hello")

		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})
}
