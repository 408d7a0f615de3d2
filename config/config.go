package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Alerts     AlertConfig      `yaml:"alerts"`
	Validation ValidationConfig `yaml:"validation"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTLMinutes int           `yaml:"token_ttl_minutes"`
	TokenTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// AlertConfig holds the expiry alert scheduler configuration.
// ThresholdDays is the alerting policy ({30,14,7} by default) and is
// independent of the UI expiry classifier tiers.
type AlertConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	ThresholdDays   []int         `yaml:"threshold_days"`
}

// ValidationConfig holds the load-test validation policy values.
// Percentages are expressed the way inspectors quote them, e.g. 125
// means the test load must reach 125% of SWL.
type ValidationConfig struct {
	ProofLoadPercent        float64            `yaml:"proof_load_percent"`
	LoadTolerance           float64            `yaml:"load_tolerance"`
	MaxPermanentDeformation float64            `yaml:"max_permanent_deformation"`
	AccuracyTolerance       float64            `yaml:"accuracy_tolerance"`
	TestTypePercent         map[string]float64 `yaml:"test_type_percent"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills in defaults for unset or invalid values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 60
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Alerts.IntervalSeconds <= 0 {
		cfg.Alerts.IntervalSeconds = 86400
	}
	cfg.Alerts.Interval = time.Duration(cfg.Alerts.IntervalSeconds) * time.Second
	if len(cfg.Alerts.ThresholdDays) == 0 {
		cfg.Alerts.ThresholdDays = []int{30, 14, 7}
	}

	if cfg.Validation.ProofLoadPercent <= 0 {
		cfg.Validation.ProofLoadPercent = 125
	}
	if cfg.Validation.LoadTolerance <= 0 {
		cfg.Validation.LoadTolerance = 0.95
	}
	if cfg.Validation.MaxPermanentDeformation <= 0 {
		cfg.Validation.MaxPermanentDeformation = 0.25
	}
	if cfg.Validation.AccuracyTolerance <= 0 {
		cfg.Validation.AccuracyTolerance = 0.5
	}
}
