package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overwrites a variable that is already set, so earlier files win.
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".fmiviewer", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the conventional, unprefixed variables and
// normalises paths after viper has resolved the prefixed ones.
func applyEnvOverrides(cfg *Config) {
	// DATABASE_URL selects the shared catalog unless a DSN is already configured
	if dsn := GetString("DATABASE_URL", ""); dsn != "" && cfg.Catalog.PostgresDSN == "" {
		cfg.Catalog.PostgresDSN = dsn
	}

	if GetBool("NO_CACHE", false) {
		cfg.Cache.Enabled = false
	}
	if workers := GetInt("FMIVIEWER_WORKERS", -1); workers >= 0 {
		cfg.Batch.Workers = workers
	}

	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Catalog.SQLitePath = expandPath(cfg.Catalog.SQLitePath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Catalog.Driver = strings.ToLower(cfg.Catalog.Driver)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Helper functions for type-safe environment variable access

// GetString returns string value or default
func GetString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetInt returns int value or default
func GetInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// GetBool returns bool value or default
func GetBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
