package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	WorkDir      string
	ContainerCLI string
	StageTimeout time.Duration
	LogLevel     string
	ServiceName  string
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		WorkDir:      getEnv("WORK_DIR", "/var/lib/snapsmith"),
		ContainerCLI: getEnv("CONTAINER_CLI", "docker"),
		StageTimeout: getDuration("STAGE_TIMEOUT", 15*time.Minute),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ServiceName:  getEnv("SERVICE_NAME", "snapsmith"),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
