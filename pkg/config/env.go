package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LocalEnvFile is read when APP_ENV is "local".
const LocalEnvFile = ".env.local"

// LoadEnv defaults APP_ENV to development and, for local runs, loads
// LocalEnvFile without overriding variables already set. It reports the file
// it loaded so the caller can log it once a logger exists; a missing file is
// returned as an error and is not fatal.
func LoadEnv() (string, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
		os.Setenv("APP_ENV", appEnv)
	}
	if appEnv != "local" {
		return "", nil
	}
	if err := godotenv.Load(LocalEnvFile); err != nil {
		return "", err
	}
	return LocalEnvFile, nil
}
