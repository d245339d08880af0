package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Store  StoreConfig
	App    AppConfig
}

type ServerConfig struct {
	Port string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StoreConfig struct {
	// DatabaseDSN is the pgx connection string for the tracker database.
	DatabaseDSN string
	// RedisAddr enables the share cache when non-empty.
	RedisAddr     string
	ShareCacheTTL time.Duration
}

type AppConfig struct {
	Environment string
	Version     string
	// APIURL is where the dashboard CLI reaches the backend.
	APIURL string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8081"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		},
		Store: StoreConfig{
			DatabaseDSN:   getEnv("DB_DSN", ""),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			ShareCacheTTL: getEnvAsDuration("SHARE_CACHE_TTL", 30*time.Second),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			APIURL:      getEnv("API_URL", "http://localhost:8081/api"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		// plain integers are read as seconds
		if secs, serr := strconv.Atoi(valueStr); serr == nil {
			return time.Duration(secs) * time.Second
		}
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
