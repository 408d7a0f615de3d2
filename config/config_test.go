package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	ApplyDefaults(&cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 24*time.Hour, cfg.Alerts.Interval)
	assert.Equal(t, []int{30, 14, 7}, cfg.Alerts.ThresholdDays)

	assert.Equal(t, 125.0, cfg.Validation.ProofLoadPercent)
	assert.Equal(t, 0.95, cfg.Validation.LoadTolerance)
	assert.Equal(t, 0.25, cfg.Validation.MaxPermanentDeformation)
	assert.Equal(t, 0.5, cfg.Validation.AccuracyTolerance)
}

func TestLoad(t *testing.T) {
	content := `
server:
  port: 9000
auth:
  jwt_secret: test-secret
  token_ttl_minutes: 15
alerts:
  enabled: true
  threshold_days: [60, 30]
validation:
  proof_load_percent: 110
  test_type_percent:
    periodic: 100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []int{60, 30}, cfg.Alerts.ThresholdDays)
	assert.Equal(t, 110.0, cfg.Validation.ProofLoadPercent)
	assert.Equal(t, 100.0, cfg.Validation.TestTypePercent["periodic"])

	// Unset values still get defaults.
	assert.Equal(t, 0.95, cfg.Validation.LoadTolerance)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
