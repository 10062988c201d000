package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DatabaseURL string
	NatsURL     string
	NatsToken   string
	UploadDir   string
	LogLevel    string
}

func Load() Config {
	// Local development convenience; a missing .env file is fine.
	_ = godotenv.Load()

	return Config{
		Port:        envInt("PORT", 3001),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		UploadDir:   envStr("UPLOAD_DIR", "uploads"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
