// Package config handles application configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Debug enables debug-level logging on stderr.
	Debug bool
	// NoBackup suppresses the .bak sibling normally written before an edit.
	NoBackup bool
	// Width is the column width used when printing profile tables.
	// Encoded file blocks always use the format's own slot width.
	Width int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Debug:    getBoolEnv("RASGEO_DEBUG", false),
		NoBackup: getBoolEnv("RASGEO_NO_BACKUP", false),
		Width:    getIntEnv("RASGEO_WIDTH", 8),
	}
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
