package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 1e20, cfg.Sentinel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CVPROFILER_OUTPUT_DIR", "/tmp/results")
	t.Setenv("CVPROFILER_LOG_LEVEL", "debug")
	t.Setenv("CVPROFILER_SENTINEL", "1e12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/results", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1e12, cfg.Sentinel)
}

func TestLoad_SentinelOutOfRange(t *testing.T) {
	t.Setenv("CVPROFILER_SENTINEL", "1e5")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CVPROFILER_SENTINEL", "1e30")
	_, err = Load()
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		cfg := &Config{LogLevel: "warn", LogFormat: format}
		require.NotNil(t, cfg.NewLogger())
	}
}
