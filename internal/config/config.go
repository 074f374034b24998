package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	// RedisAddr empty means the in-memory TTL store is used instead.
	RedisAddr     string
	RedisPassword string

	ProviderLiveURL    string
	ProviderSandboxURL string
	ProviderTimeout    time.Duration

	// AssetsBaseURL prefixes bank logo image paths in rendered tables.
	AssetsBaseURL string
}

func Load() *Config {
	// Missing .env is fine, explicit env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "installments"),
		DBPassword:  getEnv("DB_PASSWORD", "installments_secret"),
		DBName:      getEnv("DB_NAME", "installments"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		ProviderLiveURL:    getEnv("PROVIDER_LIVE_URL", "https://api.iyzipay.com"),
		ProviderSandboxURL: getEnv("PROVIDER_SANDBOX_URL", "https://sandbox-api.iyzipay.com"),
		ProviderTimeout:    getDuration("PROVIDER_TIMEOUT", 15*time.Second),

		AssetsBaseURL: getEnv("ASSETS_BASE_URL", "/assets"),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
