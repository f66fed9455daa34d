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
	// local façade port
	Port string

	// remote vault API
	APIBaseURL   string
	HTTPTimeout  time.Duration
	SignedURLTTL time.Duration

	// session identity: either an ID token to verify through the gateway or
	// a pre-verified email for development
	IDToken   string
	UserEmail string
}

// Load loads configuration from the environment, reading .env when present.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		APIBaseURL:   getEnv("VAULT_API_BASE_URL", ""),
		HTTPTimeout:  time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		SignedURLTTL: time.Duration(getEnvAsInt("SIGNED_URL_TTL_SECONDS", 300)) * time.Second,
		IDToken:      getEnv("VAULT_ID_TOKEN", ""),
		UserEmail:    getEnv("VAULT_USER_EMAIL", ""),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("VAULT_API_BASE_URL is required")
	}
	if cfg.IDToken == "" && cfg.UserEmail == "" {
		return nil, fmt.Errorf("VAULT_ID_TOKEN or VAULT_USER_EMAIL is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
