package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, WeightsConfig{Name: 40, Address: 30, Distance: 20, Category: 10}, cfg.Matcher.Weights)
	assert.InDelta(t, 5000, cfg.Matcher.MaxDistanceMeters, 0.001)
	assert.InDelta(t, 50, cfg.Matcher.ExactDistanceMeters, 0.001)
	assert.InDelta(t, 30, cfg.Matcher.MinConfidenceScore, 0.001)
	assert.InDelta(t, 85, cfg.Matcher.ConsistencyBonusMinRaw, 0.001)
	assert.False(t, cfg.Matcher.StrictMode)
	assert.False(t, cfg.Matcher.Verbose)
	assert.Equal(t, "", cfg.Tables.Path)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrentQueries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("match"))
	assert.NoError(t, cfg.Validate("batch"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
matcher:
  weights:
    name: 50
    category: 0
  max_distance_meters: 2000
  strict_mode: true
tables:
  path: /etc/placematch/tables.yaml
log:
  level: debug
  format: console
batch:
  max_concurrent_queries: 16
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 50, cfg.Matcher.Weights.Name, 0.001)
	assert.InDelta(t, 0, cfg.Matcher.Weights.Category, 0.001)
	assert.InDelta(t, 2000, cfg.Matcher.MaxDistanceMeters, 0.001)
	assert.True(t, cfg.Matcher.StrictMode)
	assert.Equal(t, "/etc/placematch/tables.yaml", cfg.Tables.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 16, cfg.Batch.MaxConcurrentQueries)
	// Defaults still apply for unset values
	assert.InDelta(t, 30, cfg.Matcher.Weights.Address, 0.001)
	assert.InDelta(t, 30, cfg.Matcher.MinConfidenceScore, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
matcher:
  min_confidence_score: 40
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PLACEMATCH_MATCHER_MIN_CONFIDENCE_SCORE", "55")
	t.Setenv("PLACEMATCH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.InDelta(t, 55, cfg.Matcher.MinConfidenceScore, 0.001)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("PLACEMATCH_BATCH_MAX_CONCURRENT_QUERIES", "3")
	t.Setenv("PLACEMATCH_MATCHER_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrentQueries)
	assert.True(t, cfg.Matcher.Verbose)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("matcher: [\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Matcher.Weights = WeightsConfig{Name: 40, Address: 30, Distance: 20, Category: 10}
	cfg.Matcher.MaxDistanceMeters = 5000
	cfg.Matcher.ExactDistanceMeters = 50
	cfg.Matcher.MinConfidenceScore = 30
	cfg.Matcher.ConsistencyBonusMinRaw = 85
	cfg.Batch.MaxConcurrentQueries = 8
	cfg.Log.Format = "json"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("match"))
	assert.NoError(t, cfg.Validate("batch"))
	assert.NoError(t, cfg.Validate("normalize"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrentQueries = 0
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_queries must be between 1 and 64")

	cfg.Batch.MaxConcurrentQueries = 65
	err = cfg.Validate("batch")
	assert.Error(t, err)

	// Only batch mode cares about concurrency.
	assert.NoError(t, cfg.Validate("match"))

	cfg.Batch.MaxConcurrentQueries = 64
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateLogFormat(t *testing.T) {
	cfg := validDefaults()
	cfg.Log.Format = "xml"

	err := cfg.Validate("match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format must be json or console")

	cfg.Log.Format = "console"
	assert.NoError(t, cfg.Validate("match"))
}
