package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Port           int
	GinMode        string
	StorageDriver  string
	AllowedOrigins []string

	// MemorySeedFile is the YAML seed file loaded by the memory driver.
	MemorySeedFile string

	AccessTokenSecret []byte

	Database DatabaseConfig

	AvailabilityURL     string
	AvailabilityTimeout time.Duration

	LogLevel  string
	LogFormat string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Database      string
	AdminUser     string
	AdminPassword string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	timeout, err := intEnv("AVAILABILITY_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                port,
		GinMode:             os.Getenv("GIN_MODE"),
		StorageDriver:       stringEnv("STORAGE_DRIVER", StorageDriverPostgres),
		AllowedOrigins:      listEnv("CORS_ALLOWED_ORIGINS"),
		MemorySeedFile:      os.Getenv("MEMORY_SEED_FILE"),
		AccessTokenSecret:   []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
		AvailabilityURL:     os.Getenv("AVAILABILITY_URL"),
		AvailabilityTimeout: time.Duration(timeout) * time.Second,
		LogLevel:            stringEnv("LOG_LEVEL", "info"),
		LogFormat:           stringEnv("LOG_FORMAT", "json"),
		Database: DatabaseConfig{
			Host:          os.Getenv("DB_HOST"),
			Port:          stringEnv("DB_PORT", "5432"),
			User:          os.Getenv("DB_USERNAME"),
			Password:      os.Getenv("DB_PASSWORD"),
			Database:      os.Getenv("DB_DATABASE"),
			AdminUser:     os.Getenv("DB_ADMIN_USER"),
			AdminPassword: os.Getenv("DB_ADMIN_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.AccessTokenSecret) == 0 {
		return fmt.Errorf("ACCESS_TOKEN_SECRET environment variable is required")
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
		if c.MemorySeedFile == "" {
			return fmt.Errorf("MEMORY_SEED_FILE environment variable is required for the memory driver")
		}
	case StorageDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST environment variable is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USERNAME environment variable is required")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD environment variable is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("DB_DATABASE environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.AvailabilityTimeout <= 0 {
		return fmt.Errorf("AVAILABILITY_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
