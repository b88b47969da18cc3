package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	mainnetBaseURL = "https://fapi.binance.com"
	testnetBaseURL = "https://testnet.binancefuture.com"
)

// Config holds all configuration for the trading CLI. It is read-only
// after Load.
type Config struct {
	APIKey     string
	APISecret  string
	BaseURL    string
	Testnet    bool
	Timeout    time.Duration
	RecvWindow int64
	LogLevel   string
	LogDir     string
}

// MissingCredentialsError signals absent API credentials. It is a
// configuration error, distinct from parameter validation errors.
type MissingCredentialsError struct {
	Variable string
}

// Error implements the error interface
func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s is not set; export BINANCE_API_KEY and BINANCE_API_SECRET", e.Variable)
}

// Load loads configuration from the environment. A .env file in the
// working directory is read first, best-effort; real environment
// variables take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		APIKey:     os.Getenv("BINANCE_API_KEY"),
		APISecret:  os.Getenv("BINANCE_API_SECRET"),
		Testnet:    getEnvAsBool("BINANCE_TESTNET", true),
		Timeout:    getEnvAsDuration("BINANCE_TIMEOUT", "10s"),
		RecvWindow: getEnvAsInt64("BINANCE_RECV_WINDOW", 5000),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogDir:     getEnv("LOG_DIR", "logs"),
	}

	defaultURL := mainnetBaseURL
	if config.Testnet {
		defaultURL = testnetBaseURL
	}
	config.BaseURL = getEnv("BINANCE_BASE_URL", defaultURL)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &MissingCredentialsError{Variable: "BINANCE_API_KEY"}
	}
	if c.APISecret == "" {
		return &MissingCredentialsError{Variable: "BINANCE_API_SECRET"}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
