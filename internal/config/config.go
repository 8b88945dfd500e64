package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	JWTSecret     string
	WebhookSecret string
	// Tolerance applied to the webhook timestamp header.
	WebhookTolerance time.Duration
	// Redis - page cache invalidation disabled if empty
	RedisURL string
	// Meilisearch - question search falls back to SQL if empty
	MeiliURL       string
	MeiliMasterKey string
	CORSOrigin     string
}

func Load() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "devflow"),
		DBPassword:       getenv("DB_PASSWORD", "devflow"),
		DBName:           getenv("DB_NAME", "devflow"),
		DBSSLMode:        getenv("DB_SSLMODE", "disable"),
		JWTSecret:        getenv("JWT_SECRET", ""),
		WebhookSecret:    getenv("WEBHOOK_SECRET", ""),
		WebhookTolerance: time.Duration(getenvInt("WEBHOOK_TOLERANCE_SECONDS", 300)) * time.Second,
		RedisURL:         getenv("REDIS_URL", ""),
		MeiliURL:         getenv("MEILI_URL", ""),
		MeiliMasterKey:   getenv("MEILI_MASTER_KEY", ""),
		CORSOrigin:       getenv("CORS_ORIGIN", "*"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
