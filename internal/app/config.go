package app

import (
	"tmsync/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// ConfigPath is an explicit config file layered on top of the defaults
	ConfigPath string

	// Version is sent in the User-Agent header
	Version string

	// Settings loaded from the config layers and the environment
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(configPath string, debug bool, version string) *Config {
	return &Config{
		ConfigPath: configPath,
		Debug:      debug,
		Version:    version,
	}
}
