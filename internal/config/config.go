package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	AppSecretKey       string
	JWTSecret          string
	JWTExpirationHours int

	PostgresDSN string

	RedisAddr string
	RedisDB   int
	RedisPass string

	GoogleClientID     string
	GoogleClientSecret string

	WalletAPIURL    string
	WalletSecretKey string
	WalletClientID  string
	WalletQueueSize int

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration overrides from .env")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8000"),
		AppSecretKey:       getEnv("APP_SECRET_KEY", "change-me"),
		JWTSecret:          getEnv("JWT_SECRET_KEY", "change-me"),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		PostgresDSN:        getEnv("POSTGRES_DSN", dsnFromParts()),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		GoogleClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		WalletAPIURL:       os.Getenv("WALLET_API_URL"),
		WalletSecretKey:    os.Getenv("WALLET_SECRET_KEY"),
		WalletClientID:     os.Getenv("WALLET_CLIENT_ID"),
		WalletQueueSize:    getEnvInt("WALLET_QUEUE_SIZE", 64),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
	}
}

// dsnFromParts assembles a Postgres DSN from the discrete DB_* variables for
// deployments that do not provide POSTGRES_DSN directly.
func dsnFromParts() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "baldness_detector")
	sslmode := getEnv("DB_SSLMODE", "disable")
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslmode)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
