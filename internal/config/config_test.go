package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:         "8375",
		JWTSecret:    "dev-secret",
		Env:          "development",
		StoreBackend: "memory",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingPort(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateUnknownStoreBackend(t *testing.T) {
	cfg := validConfig()
	cfg.StoreBackend = "mongodb"
	assert.Error(t, cfg.Validate())
}

func TestValidateProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.GeminiAPIKey = "key"

	// Default-looking secret is rejected in production.
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())

	// Short secrets are rejected in production.
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-very-long-production-secret-with-32-plus-chars"
	require.NoError(t, cfg.Validate())

	cfg.GeminiAPIKey = ""
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = "db"
	cfg.DBPort = "5432"
	cfg.DBUser = "lumina"
	cfg.DBPassword = "pw"
	cfg.DBName = "lumina"
	cfg.DBSSLMode = "disable"

	assert.Equal(t, "host=db port=5432 user=lumina password=pw dbname=lumina sslmode=disable", cfg.PostgresDSN())
}
