package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the single canonical backend endpoint configuration. Every
// component reads the base URL from here; nothing else hardcodes a host.
type Config struct {
	BackendBaseURL string
	SocketURL      string
	Environment    string
	CredentialPath string
	RequestTimeout int64 // seconds
}

func Load() (*Config, error) {
	godotenv.Load()

	home, _ := os.UserHomeDir()

	config := &Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		SocketURL:      getEnv("SOCKET_URL", "ws://localhost:5000/socket"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		CredentialPath: getEnv("CREDENTIAL_PATH", filepath.Join(home, ".marketchat", "credentials.json")),
		RequestTimeout: getEnvAsInt64("REQUEST_TIMEOUT", 15),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
