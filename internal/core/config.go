package core

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	LogLevel     string // debug, info, warn, error
	DataDir      string // Root of the assessment store
	HTTPAddr     string // Listen address for the API server
	SettingsFile string // Optional YAML settings document; built-in defaults when empty
	CatalogFile  string // Optional YAML question catalog; embedded catalog when empty
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	cfg := &Config{
		LogLevel:     logLevel,
		DataDir:      getEnvOrDefault("KODEX_DATA_DIR", ".kodex"),
		HTTPAddr:     getEnvOrDefault("KODEX_HTTP_ADDR", ":8080"),
		SettingsFile: os.Getenv("KODEX_SETTINGS_FILE"),
		CatalogFile:  os.Getenv("KODEX_CATALOG_FILE"),
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
