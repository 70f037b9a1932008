package config

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvConfig holds process-wide configuration. It is read once at startup and
// treated as immutable afterwards.
type EnvConfig struct {
	EXPORT_DIR    string
	LOG_FILE_PATH string
	HTTP_ADDR     string
}

// DefaultEnvConfig is populated by LoadEnvConfig.
var DefaultEnvConfig EnvConfig

const defaultExportDir = "/tmp/protex-intelligence-file-exports"

// LoadEnvConfig loads configuration from the environment, with an optional
// .env file for local development. Missing .env is not an error.
func LoadEnvConfig() error {
	_ = godotenv.Load()

	DefaultEnvConfig = EnvConfig{
		EXPORT_DIR:    getEnv("EXPORT_DIR", defaultExportDir),
		LOG_FILE_PATH: os.Getenv("LOG_FILE_PATH"),
		HTTP_ADDR:     os.Getenv("HTTP_ADDR"),
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
