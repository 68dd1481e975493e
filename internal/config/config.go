// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WindowDays is the default profile window.
	WindowDays int `koanf:"window_days"`

	// DefaultTopK applies when a request names no top_k; MaxTopK caps it.
	DefaultTopK int `koanf:"default_top_k"`
	MaxTopK     int `koanf:"max_top_k"`

	// DefaultStrategy is rule or learned.
	DefaultStrategy string `koanf:"default_strategy"`

	// Rule model tuning. The defaults reproduce the reference blend.
	WeightEndurance  float64 `koanf:"weight_endurance"`
	WeightSpeed      float64 `koanf:"weight_speed"`
	WeightRecovery   float64 `koanf:"weight_recovery"`
	BaselinePace     float64 `koanf:"baseline_pace"`
	RecoveryTarget   float64 `koanf:"recovery_target"`
	NeutralReadiness float64 `koanf:"neutral_readiness"`

	// ModelPath points at a learned model artifact; empty disables the learned strategy.
	ModelPath string `koanf:"model_path"`

	// CatalogPath points at a YAML event catalog; empty uses the built-in one.
	CatalogPath string `koanf:"catalog_path"`

	// DatabaseURL enables the PostgreSQL store when set.
	DatabaseURL string `koanf:"database_url"`
	DBMaxConns  int    `koanf:"db_max_conns"`

	// BreakerFailures consecutive failures open the database breaker for BreakerTimeoutMS.
	BreakerFailures  int `koanf:"breaker_failures"`
	BreakerTimeoutMS int `koanf:"breaker_timeout_ms"`

	// RequestTimeoutMS bounds each HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		WindowDays:       28,
		DefaultTopK:      5,
		MaxTopK:          50,
		DefaultStrategy:  "rule",
		WeightEndurance:  0.5,
		WeightSpeed:      0.4,
		WeightRecovery:   0.1,
		BaselinePace:     6.0,
		RecoveryTarget:   85,
		NeutralReadiness: 50,
		DBMaxConns:       10,
		BreakerFailures:  5,
		BreakerTimeoutMS: 30_000,
		RequestTimeoutMS: 5_000,
	}
}

// BreakerTimeout returns BreakerTimeoutMS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WindowDays <= 0:
		return fmt.Errorf("%w: window_days must be positive", ErrInvalidConfig)
	case c.DefaultTopK <= 0 || c.MaxTopK <= 0:
		return fmt.Errorf("%w: default_top_k and max_top_k must be positive", ErrInvalidConfig)
	case c.DefaultTopK > c.MaxTopK:
		return fmt.Errorf("%w: default_top_k %d exceeds max_top_k %d", ErrInvalidConfig, c.DefaultTopK, c.MaxTopK)
	case c.WeightEndurance < 0 || c.WeightSpeed < 0 || c.WeightRecovery < 0:
		return fmt.Errorf("%w: blend weights must not be negative", ErrInvalidConfig)
	case c.BaselinePace <= 0 || c.RecoveryTarget <= 0:
		return fmt.Errorf("%w: baseline_pace and recovery_target must be positive", ErrInvalidConfig)
	case c.NeutralReadiness < 0 || c.NeutralReadiness > 100:
		return fmt.Errorf("%w: neutral_readiness must be within 0-100", ErrInvalidConfig)
	case c.BreakerFailures <= 0 || c.BreakerTimeoutMS <= 0:
		return fmt.Errorf("%w: breaker settings must be positive", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.DefaultStrategy) {
	case "rule", "learned":
	default:
		return fmt.Errorf("%w: default_strategy %q", ErrInvalidConfig, c.DefaultStrategy)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
