package app

import (
	"fmt"
	"os"

	"tmsync/internal/config"
	"tmsync/pkg/logging"
)

// Application is the main application structure that bootstraps tmsync
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the configuration layers and wires the services.
// Logs go to stderr so stdout stays free for summaries and the MCP stream.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.InitForCLI(appLogLevel, os.Stderr)

	settings, err := config.LoadConfig(cfg.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load tmsync configuration")
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cfg.Settings = &settings
	logging.Debug("Bootstrap", "Using %s as %s, mapping %s", settings.TestRail.URL, settings.TestRail.User, settings.Mapping.Path)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, &config.ConfigurationError{Err: fmt.Errorf("failed to initialize services: %w", err)}
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// NewApplicationWithServices builds an application around already wired
// services. cfg.Settings must be set.
func NewApplicationWithServices(cfg *Config, services *Services) *Application {
	if cfg.Settings == nil {
		defaults := config.GetDefaultConfig()
		cfg.Settings = &defaults
	}
	return &Application{config: cfg, services: services}
}
