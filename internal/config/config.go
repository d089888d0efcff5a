// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServiceName identifies the enclave namespace used for per-secret items.
	ServiceName string
	// ContainerDir is the shared-container root holding the encrypted blob and
	// key file. Empty means "resolve a per-user default at runtime".
	ContainerDir string
	// VaultAlgorithm selects the AEAD algorithm for the shared encrypted store
	// (e.g., "aes-gcm", "chacha20-poly1305").
	VaultAlgorithm string

	// DBPath is the filesystem path of the embedded record database.
	DBPath string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Vault configuration
		ServiceName:    env.GetString("VAULT_SERVICE_NAME", "varkeep"),
		ContainerDir:   env.GetString("VAULT_CONTAINER_DIR", ""),
		VaultAlgorithm: env.GetString("VAULT_ALGORITHM", "aes-gcm"),

		// Record database configuration
		DBPath: env.GetString("DB_PATH", defaultDBPath()),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),
	}
}

// defaultDBPath returns the per-user record database location.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "varkeep.db"
	}
	return filepath.Join(dir, "varkeep", "varkeep.db")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
