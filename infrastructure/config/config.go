package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	SettingsTable string
	IndexName     string // GSI1 - investigation-level sketch queries
	EventBusName  string

	// Lambda configuration
	IsLambda bool

	// Settings persistence
	SettingsFlushDelayMS int

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is read first when present, matching local development;
// real environment variables always win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "caseboard"),
		SettingsTable: getEnv("SETTINGS_TABLE_NAME", "caseboard-settings"),
		IndexName:     getEnv("INDEX_NAME", "InvestigationIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "caseboard-actions"),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		SettingsFlushDelayMS: getEnvInt("SETTINGS_FLUSH_DELAY_MS", 500),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.SettingsTable == "" {
			return fmt.Errorf("SETTINGS_TABLE_NAME is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}
	if c.SettingsFlushDelayMS < 0 {
		return fmt.Errorf("SETTINGS_FLUSH_DELAY_MS must not be negative")
	}

	return nil
}

// SettingsFlushDelay returns the debounce window as a duration
func (c *Config) SettingsFlushDelay() time.Duration {
	return time.Duration(c.SettingsFlushDelayMS) * time.Millisecond
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
