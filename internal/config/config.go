package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/CodeBuddy07/accounting-server/internal/logger"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	CookieName  string
	LogLevel    string
}

func Load() *Config {
	// .env is optional, deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=accounting port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		CookieName:  getEnv("AUTH_COOKIE_NAME", "token"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		logger.Fatal(nil, "JWT_SECRET is not set, the server cannot sign sessions")
	}
	if len(cfg.JWTSecret) < 32 {
		logger.Fatal(nil, "JWT_SECRET must be at least 32 characters")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logger.Warn("CORS_ALLOWED_ORIGINS is using the development default")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
