package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "STORAGE_DRIVER", "MEMORY_SEED_FILE", "CORS_ALLOWED_ORIGINS", "ACCESS_TOKEN_SECRET",
		"AVAILABILITY_URL", "AVAILABILITY_TIMEOUT_SECONDS", "LOG_LEVEL", "LOG_FORMAT",
		"DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_DATABASE",
	} {
		t.Setenv(key, env[key])
	}
}

func TestFromEnv_MemoryDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER":       "memory",
		"MEMORY_SEED_FILE":     "seed.yaml",
		"ACCESS_TOKEN_SECRET":  "secret",
		"CORS_ALLOWED_ORIGINS": "http://a.test, ,http://b.test",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "seed.yaml", cfg.MemorySeedFile)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.AvailabilityTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing token secret",
			env:  map[string]string{"STORAGE_DRIVER": "memory"},
		},
		{
			name: "postgres without host",
			env:  map[string]string{"ACCESS_TOKEN_SECRET": "s", "DB_USERNAME": "u", "DB_PASSWORD": "p", "DB_DATABASE": "d"},
		},
		{
			name: "memory without seed file",
			env:  map[string]string{"ACCESS_TOKEN_SECRET": "s", "STORAGE_DRIVER": "memory"},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"ACCESS_TOKEN_SECRET": "s", "STORAGE_DRIVER": "sqlite"},
		},
		{
			name: "bad port",
			env:  map[string]string{"ACCESS_TOKEN_SECRET": "s", "STORAGE_DRIVER": "memory", "MEMORY_SEED_FILE": "seed.yaml", "PORT": "eighty"},
		},
		{
			name: "non-positive timeout",
			env:  map[string]string{"ACCESS_TOKEN_SECRET": "s", "STORAGE_DRIVER": "memory", "MEMORY_SEED_FILE": "seed.yaml", "AVAILABILITY_TIMEOUT_SECONDS": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_Postgres(t *testing.T) {
	setEnv(t, map[string]string{
		"ACCESS_TOKEN_SECRET": "s",
		"DB_HOST":             "db",
		"DB_PORT":             "6543",
		"DB_USERNAME":         "u",
		"DB_PASSWORD":         "p",
		"DB_DATABASE":         "teamwork",
		"PORT":                "9000",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, "teamwork", cfg.Database.Database)
}
