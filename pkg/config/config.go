package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix("PODBRIEF")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine - defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("stub.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid stub server port: %d", port)
	}

	if viper.GetString("backend.base_url") == "" {
		fmt.Println("Warning: No backend base URL configured")
	}

	// Auto-correct nonsensical intervals rather than failing startup
	if viper.GetDuration("poller.interval") <= 0 {
		viper.Set("poller.interval", 2*time.Second)
	}
	if viper.GetDuration("poller.search_wait") <= 0 {
		viper.Set("poller.search_wait", 20*time.Second)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Stub.Port <= 0 || c.Stub.Port > 65535 {
		return fmt.Errorf("invalid stub server port: %d", c.Stub.Port)
	}

	if c.Poller.Interval <= 0 {
		c.Poller.Interval = 2 * time.Second
	}
	if c.Poller.SearchWait <= 0 {
		c.Poller.SearchWait = 20 * time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Backend defaults
	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("backend.timeout", 30*time.Second)
	viper.SetDefault("backend.retry_attempts", 3)
	viper.SetDefault("backend.retry_backoff", time.Second)
	viper.SetDefault("backend.rate_limit", 120)
	viper.SetDefault("backend.burst", 5)
	viper.SetDefault("backend.user_agent", "podbrief-cli/1.0")

	// Poller defaults
	viper.SetDefault("poller.interval", 2*time.Second)
	viper.SetDefault("poller.search_wait", 20*time.Second)

	// Session defaults
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("session.path", filepath.Join(home, ".podbrief", "session.json"))

	// Stub server defaults
	viper.SetDefault("stub.host", "127.0.0.1")
	viper.SetDefault("stub.port", 8000)
	viper.SetDefault("stub.database_path", ":memory:")
	viper.SetDefault("stub.advance_interval", time.Second)
	viper.SetDefault("stub.shutdown_timeout", 10*time.Second)
	viper.SetDefault("stub.verbose", false)
}
