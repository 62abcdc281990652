package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.True(t, cfg.Reporting.Color)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Logging.DebugMode)
	require.Empty(t, cfg.IncludePaths)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
include_paths:
  - lib
  - /usr/share/principia
reporting:
  color: false
logging:
  level: debug
  debug_mode: true
  categories:
    kernel: true
    watch: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"lib", "/usr/share/principia"}, cfg.IncludePaths)
	require.False(t, cfg.Reporting.Color)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.IsCategoryEnabled("kernel"))
	require.False(t, cfg.Logging.IsCategoryEnabled("watch"))
	require.True(t, cfg.Logging.IsCategoryEnabled("driver"), "unspecified categories default to enabled")
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("reporting: ["), 0644))
	_, err := Load(dir)
	require.Error(t, err)
}

func TestCategoryGateRequiresDebugMode(t *testing.T) {
	c := LoggingConfig{DebugMode: false, Categories: map[string]bool{"kernel": true}}
	require.False(t, c.IsCategoryEnabled("kernel"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("PRINCIPIA_LOG_LEVEL", "warn")
	t.Setenv("PRINCIPIA_DEBUG", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.False(t, cfg.Reporting.Color)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.True(t, cfg.Logging.DebugMode)
}
