// Package config reads application configuration from the environment.
// Engine settings (grid, margins, page size) live in the JSON settings
// file instead; this package only carries process-level knobs.
package config

import (
	"os"
	"strconv"

	"github.com/kozaktomas/photo-grid/internal/constants"
)

type Config struct {
	Web      WebConfig
	Engine   EngineConfig
	Settings SettingsConfig
}

type WebConfig struct {
	Host           string // defaults to 0.0.0.0
	Port           int    // defaults to 8080
	AllowedOrigins string // comma-separated CORS whitelist
}

type EngineConfig struct {
	Workers int // parallel compositing workers per page
}

type SettingsConfig struct {
	Path string // settings file location, defaults to grid_settings.json
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envStr reads an environment variable with a fallback.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Web: WebConfig{
			Host:           envStr("PHOTOGRID_WEB_HOST", "0.0.0.0"),
			Port:           envInt("PHOTOGRID_WEB_PORT", 8080),
			AllowedOrigins: os.Getenv("PHOTOGRID_ALLOWED_ORIGINS"),
		},
		Engine: EngineConfig{
			Workers: envInt("PHOTOGRID_WORKERS", constants.DefaultWorkers),
		},
		Settings: SettingsConfig{
			Path: envStr("PHOTOGRID_SETTINGS_FILE", "grid_settings.json"),
		},
	}
}
