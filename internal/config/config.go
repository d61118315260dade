package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Orders   OrdersConfig
	Session  SessionConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	CORSOrigins     []string // Origins allowed to call the API from a browser
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for the admin refresh endpoint
}

type CatalogConfig struct {
	APIURL       string // Remote sheet-backed catalog API
	CacheTTLSecs int    // TTL for derived cache entries
	FetchTimeout int    // Per-request timeout in seconds
}

type OrdersConfig struct {
	SubmitURL      string // External order-submission endpoint
	DeliveryCharge float64
	SubmitTimeout  int // Per-request timeout in seconds
}

type SessionConfig struct {
	LifetimeMins int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			CORSOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Catalog: CatalogConfig{
			APIURL:       getEnv("CATALOG_API_URL", ""),
			CacheTTLSecs: getEnvAsInt("CATALOG_CACHE_TTL", 300),
			FetchTimeout: getEnvAsInt("CATALOG_FETCH_TIMEOUT", 30),
		},
		Orders: OrdersConfig{
			SubmitURL:      getEnv("ORDER_SUBMIT_URL", ""),
			DeliveryCharge: getEnvAsFloat("DELIVERY_CHARGE", 10),
			SubmitTimeout:  getEnvAsInt("ORDER_SUBMIT_TIMEOUT", 30),
		},
		Session: SessionConfig{
			LifetimeMins: getEnvAsInt("SESSION_LIFETIME", 720),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// CORSAllowCredentials reports whether browser responses may carry
// credentials. Browsers reject credentialed responses that answer with
// a wildcard origin, so credentials are only enabled when the allowed
// origins are listed explicitly.
func (s ServerConfig) CORSAllowCredentials() bool {
	for _, origin := range s.CORSOrigins {
		if origin == "*" {
			return false
		}
	}
	return len(s.CORSOrigins) > 0
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Catalog.APIURL == "" {
		return fmt.Errorf("CATALOG_API_URL is required")
	}

	if c.Orders.SubmitURL == "" {
		return fmt.Errorf("ORDER_SUBMIT_URL is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Orders.DeliveryCharge < 0 {
		return fmt.Errorf("DELIVERY_CHARGE must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
