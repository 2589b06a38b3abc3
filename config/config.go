package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"matka/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	HTTPAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string

	// Betting windows
	BettingGrace time.Duration // betting closes this long before bazaar close
	CancelWindow time.Duration // bets may be cancelled this long after placement

	// Settlement configuration
	SettlementWorkers int // bounded concurrency for per-bet settlement

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		BettingGrace: 5 * time.Minute,
		CancelWindow: 5 * time.Minute,

		SettlementWorkers: 8,

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if v := os.Getenv("BETTING_GRACE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes >= 0 {
			config.BettingGrace = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("CANCEL_WINDOW_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes >= 0 {
			config.CancelWindow = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("SETTLEMENT_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			config.SettlementWorkers = workers
		}
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		BettingGrace:      5 * time.Minute,
		CancelWindow:      5 * time.Minute,
		SettlementWorkers: 4,
	}
}
