package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Poller  PollerConfig  `mapstructure:"poller"`
	Session SessionConfig `mapstructure:"session"`
	Stub    StubConfig    `mapstructure:"stub"`
}

// BackendConfig contains settings for the summarization backend API
type BackendConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	RateLimit     int           `mapstructure:"rate_limit"`
	Burst         int           `mapstructure:"burst"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// PollerConfig contains episode status polling settings
type PollerConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	SearchWait time.Duration `mapstructure:"search_wait"`
}

// SessionConfig contains local session persistence settings
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// StubConfig contains settings for the local stub backend server
type StubConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DatabasePath    string        `mapstructure:"database_path"`
	AdvanceInterval time.Duration `mapstructure:"advance_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Verbose         bool          `mapstructure:"verbose"`
}
