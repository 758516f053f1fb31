package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds client settings loaded from the environment.
type Config struct {
	Username         string        `mapstructure:"dhis2_username"`
	Password         string        `mapstructure:"dhis2_password"`
	BaseURL          string        `mapstructure:"dhis2_base_url"`
	LogLevel         string        `mapstructure:"dhis2_log_level"`
	ConcurrencyLimit int           `mapstructure:"dhis2_concurrency_limit"`
	TimeoutSeconds   int64         `mapstructure:"dhis2_timeout_seconds"`
	Timeout          time.Duration `mapstructure:"-"`

	RetryMaxAttempts     int           `mapstructure:"dhis2_retry_max_attempts"`
	RetryMinWaitSeconds  int64         `mapstructure:"dhis2_retry_min_wait_seconds"`
	RetryMaxWaitSeconds  int64         `mapstructure:"dhis2_retry_max_wait_seconds"`
	RetryBackoffMultiple float64       `mapstructure:"dhis2_retry_multiplier"`
	RetryMinWait         time.Duration `mapstructure:"-"`
	RetryMaxWait         time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables, optionally
// seeded from a .env file in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("dhis2_username", "")
	v.SetDefault("dhis2_password", "")
	v.SetDefault("dhis2_base_url", "")
	v.SetDefault("dhis2_log_level", "info")
	v.SetDefault("dhis2_concurrency_limit", 200)
	v.SetDefault("dhis2_timeout_seconds", 30)
	v.SetDefault("dhis2_retry_max_attempts", 3)
	v.SetDefault("dhis2_retry_min_wait_seconds", 1)
	v.SetDefault("dhis2_retry_max_wait_seconds", 10)
	v.SetDefault("dhis2_retry_multiplier", 1.0)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("dhis2_base_url is required")
	}
	if cfg.ConcurrencyLimit <= 0 {
		return nil, fmt.Errorf("invalid dhis2_concurrency_limit (must be positive)")
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid dhis2_timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.RetryMaxAttempts <= 0 {
		return nil, fmt.Errorf("invalid dhis2_retry_max_attempts (must be positive)")
	}
	if cfg.RetryMinWaitSeconds <= 0 || cfg.RetryMaxWaitSeconds < cfg.RetryMinWaitSeconds {
		return nil, fmt.Errorf("invalid retry wait bounds (need 0 < min <= max)")
	}
	cfg.RetryMinWait = time.Duration(cfg.RetryMinWaitSeconds) * time.Second
	cfg.RetryMaxWait = time.Duration(cfg.RetryMaxWaitSeconds) * time.Second

	return &cfg, nil
}
