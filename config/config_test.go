package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "DEFAULT_HORIZON_YEARS", "CRITICAL_THRESHOLD_YEARS", "SEED_SCENARIO", "MONITOR_INTERVAL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "reserve.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.DefaultHorizonYears)
	assert.Equal(t, 10, cfg.CriticalThresholdYears)
	assert.Empty(t, cfg.SeedScenario)
	assert.Equal(t, time.Hour, cfg.MonitorInterval)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://reserve.example.com")
	t.Setenv("CRITICAL_THRESHOLD_YEARS", "5")
	t.Setenv("SEED_SCENARIO", "golf-view-manor")
	t.Setenv("MONITOR_INTERVAL", "0s")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://reserve.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.CriticalThresholdYears)
	assert.Equal(t, "golf-view-manor", cfg.SeedScenario)
	assert.Zero(t, cfg.MonitorInterval)
}

func TestParse_BadNumber(t *testing.T) {
	t.Setenv("DEFAULT_HORIZON_YEARS", "thirty")
	_, err := Parse()
	assert.Error(t, err)
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	// GIVEN: A .env file setting PORT and DB_PATH, and PORT already exported
	// WHEN: Loading
	// THEN: The exported value wins; the file fills the rest

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7000\nDB_PATH=/tmp/from-dotenv.db\n"), 0o600))

	t.Setenv("PORT", "7100")
	t.Setenv("DB_PATH", "")
	os.Unsetenv("DB_PATH")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DBPath)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{
		Port:                   "http",
		DBPath:                 "",
		LogFormat:              "xml",
		DefaultHorizonYears:    0,
		CriticalThresholdYears: -1,
		MonitorInterval:        -time.Second,
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"invalid port", "database path", "log format", "default horizon", "critical threshold", "monitor interval"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = &Config{Port: "70000", DBPath: "x.db", LogFormat: "text", DefaultHorizonYears: 30}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 65535")
}
