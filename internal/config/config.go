// Package config reads fitslic settings from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvLogLevel     = "FITSLIC_LOG_LEVEL"
	EnvDeletePolicy = "FITSLIC_DELETE_POLICY"
	EnvCatalog      = "FITSLIC_CATALOG"
)

// Defaults.
const (
	DefaultLogLevel     = "warn"
	DefaultDeletePolicy = "stop"
)

// Config holds the settings flags may override.
type Config struct {
	// LogLevel is a zerolog level name.
	LogLevel string
	// DeletePolicy is "stop" or "all".
	DeletePolicy string
	// CatalogPath points to a YAML file with extra licenses. Empty means
	// the built-in catalog only.
	CatalogPath string
}

// Load reads a .env file from the working directory, if any, then the
// environment. Variables already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		LogLevel:     getEnvWithDefault(EnvLogLevel, DefaultLogLevel),
		DeletePolicy: getEnvWithDefault(EnvDeletePolicy, DefaultDeletePolicy),
		CatalogPath:  strings.TrimSpace(os.Getenv(EnvCatalog)),
	}
}

func getEnvWithDefault(name string, def string) string {
	res, found := os.LookupEnv(name)
	if !found || strings.TrimSpace(res) == "" {
		return def
	}
	return strings.TrimSpace(res)
}
