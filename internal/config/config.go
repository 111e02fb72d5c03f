package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration, populated from environment
// variables with sensible development defaults.
type Config struct {
	Addr             string
	DatabaseDSN      string
	UploadDir        string
	IdentityCacheTTL time.Duration
}

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:             getEnv("SERVER_ADDR", ":8008"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "taskflow.db"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		IdentityCacheTTL: time.Duration(getEnvAsInt("IDENTITY_CACHE_TTL_SECONDS", 60)) * time.Second,
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.Addr == "" {
		log.Fatal("SERVER_ADDR must not be empty (e.g. :8008)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.UploadDir == "" {
		log.Fatal("UPLOAD_DIR must not be empty")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return fallback
}
