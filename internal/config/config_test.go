package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 64, cfg.WalletQueueSize)
	assert.Contains(t, cfg.PostgresDSN, "dbname=baldness_detector")
	assert.Contains(t, cfg.PostgresDSN, "sslmode=disable")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "super-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("POSTGRES_DSN", "host=db port=5432 user=app password=pw dbname=users sslmode=require")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("WALLET_API_URL", "https://wallets.example.com")
	t.Setenv("WALLET_SECRET_KEY", "wallet-secret")
	t.Setenv("WALLET_QUEUE_SIZE", "128")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.JWTExpirationHours)
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=users sslmode=require", cfg.PostgresDSN)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "https://wallets.example.com", cfg.WalletAPIURL)
	assert.Equal(t, "wallet-secret", cfg.WalletSecretKey)
	assert.Equal(t, 128, cfg.WalletQueueSize)
}

func TestLoad_DSNFromParts(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "directory")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()

	assert.Equal(t, "host=pg.internal port=5433 user=app password=pw dbname=directory sslmode=require", cfg.PostgresDSN)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 24, cfg.JWTExpirationHours)
}
