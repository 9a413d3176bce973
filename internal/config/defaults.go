package config

import "time"

const (
	// DefaultTemplateID is the "Test Case (Steps)" template, the one that
	// carries the custom_steps_separated field.
	DefaultTemplateID = 2
	DefaultTimeout    = 60 * time.Second
	DefaultMapping    = ".tmsync/mapping.yaml"
)

// GetDefaultConfig returns the compiled-in configuration. It has no endpoint
// or credentials; those must come from a file or the environment.
func GetDefaultConfig() Config {
	return Config{
		TestRail: TestRailConfig{
			Timeout:    DefaultTimeout,
			TemplateID: DefaultTemplateID,
		},
		Mapping: MappingConfig{
			Path: DefaultMapping,
		},
	}
}
