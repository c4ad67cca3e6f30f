package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and applies environment overrides on top
// of the defaults. A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT_SEC"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ShutdownTimeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
