package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	DataDir    string
	ServerPort string
}

// Load reads configuration from the environment, after loading a .env file if
// one is present. Missing variables fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataDir:    getEnv("DATA_DIR", "data"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
