// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	ModelProvider string // gemini, openai, anthropic, ollama, dummy
	ModelName     string
	Session       SessionConfig
}

// SessionConfig controls conversation memory.
type SessionConfig struct {
	Store       string // memory, redis, mongo, postgres
	RedisURL    string
	MongoURI    string
	MongoDB     string
	PostgresURL string
	MaxHistory  int
	Expiry      time.Duration
}

var (
	validProviders = []string{"gemini", "openai", "anthropic", "ollama", "dummy"}
	validStores    = []string{"memory", "redis", "mongo", "postgres"}
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		ModelProvider: strings.ToLower(getEnv("MODEL_PROVIDER", "gemini")),
		ModelName:     getEnv("MODEL_NAME", "gemini-1.5-flash"),
		Session: SessionConfig{
			Store:       strings.ToLower(getEnv("SESSION_STORE", "memory")),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:     getEnv("MONGO_DB", "tutor"),
			PostgresURL: getEnv("POSTGRES_URL", ""),
			MaxHistory:  getEnvInt("SESSION_MAX_HISTORY", 5),
			Expiry:      getEnvDuration("SESSION_EXPIRY", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if !contains(validProviders, c.ModelProvider) {
		return fmt.Errorf("MODEL_PROVIDER must be one of %s", strings.Join(validProviders, ", "))
	}
	if !contains(validStores, c.Session.Store) {
		return fmt.Errorf("SESSION_STORE must be one of %s", strings.Join(validStores, ", "))
	}
	if c.Session.Store == "postgres" && c.Session.PostgresURL == "" {
		return fmt.Errorf("POSTGRES_URL cannot be empty when SESSION_STORE=postgres")
	}
	if c.Session.MaxHistory <= 0 {
		return fmt.Errorf("SESSION_MAX_HISTORY must be > 0")
	}
	if c.Session.Expiry <= 0 {
		return fmt.Errorf("SESSION_EXPIRY must be > 0")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		// Bare numbers are read as seconds.
		if n, convErr := strconv.Atoi(strings.TrimSpace(value)); convErr == nil {
			return time.Duration(n) * time.Second
		}
		return fallback
	}
	return d
}
