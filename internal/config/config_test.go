package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heater.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Analysis.Channel)
	assert.Equal(t, 30.0, cfg.Analysis.SyncLower)
	assert.Equal(t, 40.0, cfg.Analysis.SyncUpper)
	assert.Equal(t, 35.0, cfg.Analysis.SyncTarget)
	assert.Equal(t, 100, cfg.Analysis.PlateauWindow)
	assert.Equal(t, 50.0, cfg.Analysis.MinPlateauDuration)
	assert.Equal(t, ".txt", cfg.Input.Extension)
	assert.Equal(t, "Heater_test_results.csv", cfg.Output.CSVPath)
	assert.False(t, cfg.Plot.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Input.Settle)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
analysis:
  plateau_window: 50
  plateau_min_temp: 80
input:
  dir: /data/heater
  delimiter: tab
  settle: 500ms
output:
  xlsx_path: results.xlsx
plot:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Analysis.PlateauWindow)
	assert.Equal(t, 80.0, cfg.Analysis.PlateauMinTemp)
	// untouched fields keep their defaults
	assert.Equal(t, 0.5, cfg.Analysis.PlateauThreshold)
	assert.Equal(t, "/data/heater", cfg.Input.Dir)
	assert.Equal(t, 500*time.Millisecond, cfg.Input.Settle)
	assert.Equal(t, "results.xlsx", cfg.Output.XLSXPath)
	assert.True(t, cfg.Plot.Enabled)
	assert.Equal(t, '\t', cfg.ParseOptions().Delimiter)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: /from/file
`)
	t.Setenv("HEATER_INPUT_DIR", "/from/env")
	t.Setenv("HEATER_ANALYSIS_PLATEAU_THRESHOLD", "0.25")
	t.Setenv("HEATER_INPUT_SETTLE", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Input.Dir)
	assert.Equal(t, 0.25, cfg.Analysis.PlateauThreshold)
	assert.Equal(t, 5*time.Second, cfg.Input.Settle)
}

func TestLoad_InvalidSyncWindow(t *testing.T) {
	path := writeConfig(t, `
analysis:
  sync_lower: 30
  sync_upper: 40
  sync_target: 45
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidWindow(t *testing.T) {
	path := writeConfig(t, `
analysis:
  plateau_window: 0
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "analysis: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.ParseOptions()
	assert.Equal(t, ',', opts.Delimiter)
	assert.Equal(t, 1, opts.HeaderLines)
	assert.Equal(t, 1, opts.FooterLines)

	cfg.Input.Delimiter = ";"
	assert.Equal(t, ';', cfg.ParseOptions().Delimiter)
}
