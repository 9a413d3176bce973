package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"tmsync/pkg/logging"
)

// For mocking in tests
var osUserHomeDir = homedir.Dir
var osGetwd = os.Getwd
var osLookupEnv = os.LookupEnv

const (
	userConfigDir    = ".config/tmsync"
	projectConfigDir = ".tmsync"
	configFileName   = "config.yaml"

	envURL    = "TMSYNC_URL"
	envUser   = "TMSYNC_USER"
	envAPIKey = "TMSYNC_API_KEY"
)

// LoadConfig loads the tmsync configuration by layering default, user and
// project settings. A non-empty explicitPath is layered last and must exist.
func LoadConfig(explicitPath string) (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else if config, err = layerIfExists(config, userConfigPath); err != nil {
		return Config{}, err
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project config path: %v", err)
	} else if config, err = layerIfExists(config, projectConfigPath); err != nil {
		return Config{}, err
	}

	if explicitPath != "" {
		explicitConfig, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return Config{}, &ConfigurationError{Err: fmt.Errorf("error loading config from %s: %w", explicitPath, err)}
		}
		config = mergeConfigs(config, explicitConfig)
		logging.Debug("Config", "Loaded explicit config %s", explicitPath)
	}

	config = applyEnvironment(config)
	config = expandConfig(config)

	mappingPath, err := homedir.Expand(config.Mapping.Path)
	if err != nil {
		return Config{}, &ConfigurationError{Err: fmt.Errorf("invalid mapping path %q: %w", config.Mapping.Path, err)}
	}
	config.Mapping.Path = mappingPath

	return config, nil
}

func layerIfExists(base Config, path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, &ConfigurationError{Err: fmt.Errorf("error loading config from %s: %w", path, err)}
	}
	logging.Debug("Config", "Loaded config layer %s", path)
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in
// the overlay leave the base untouched.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.TestRail.URL != "" {
		merged.TestRail.URL = overlay.TestRail.URL
	}
	if overlay.TestRail.User != "" {
		merged.TestRail.User = overlay.TestRail.User
	}
	if overlay.TestRail.APIKey != "" {
		merged.TestRail.APIKey = overlay.TestRail.APIKey
	}
	if overlay.TestRail.Timeout != 0 {
		merged.TestRail.Timeout = overlay.TestRail.Timeout
	}
	if overlay.TestRail.TemplateID != 0 {
		merged.TestRail.TemplateID = overlay.TestRail.TemplateID
	}
	if overlay.Project.ID != "" {
		merged.Project.ID = overlay.Project.ID
	}
	if overlay.Mapping.Path != "" {
		merged.Mapping.Path = overlay.Mapping.Path
	}
	if overlay.Sync.SectionName != "" {
		merged.Sync.SectionName = overlay.Sync.SectionName
	}
	// Booleans can only be switched on by a layer.
	merged.Sync.PersistIncrementally = merged.Sync.PersistIncrementally || overlay.Sync.PersistIncrementally

	return merged
}

func applyEnvironment(config Config) Config {
	if v, ok := osLookupEnv(envURL); ok && v != "" {
		config.TestRail.URL = v
	}
	if v, ok := osLookupEnv(envUser); ok && v != "" {
		config.TestRail.User = v
	}
	if v, ok := osLookupEnv(envAPIKey); ok && v != "" {
		config.TestRail.APIKey = v
	}
	return config
}

func expandConfig(config Config) Config {
	config.TestRail.URL = expandEnv(config.TestRail.URL)
	config.TestRail.User = expandEnv(config.TestRail.User)
	config.TestRail.APIKey = expandEnv(config.TestRail.APIKey)
	config.Project.ID = expandEnv(config.Project.ID)
	config.Mapping.Path = expandEnv(config.Mapping.Path)
	config.Sync.SectionName = expandEnv(config.Sync.SectionName)
	return config
}

// expandEnv replaces ${VAR} and ${VAR:-default} references.
func expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, fallback, hasDefault := strings.Cut(key, ":-")
		if v, ok := osLookupEnv(name); ok && v != "" {
			return v
		}
		if hasDefault {
			return fallback
		}
		return ""
	})
}

// Validate reports every setting the remote client cannot work without.
func (c Config) Validate() error {
	var missing []string
	if c.TestRail.URL == "" {
		missing = append(missing, "testrail.url")
	}
	if c.TestRail.User == "" {
		missing = append(missing, "testrail.user")
	}
	if c.TestRail.APIKey == "" {
		missing = append(missing, "testrail.apiKey")
	}
	if c.Mapping.Path == "" {
		missing = append(missing, "mapping.path")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
