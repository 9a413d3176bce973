package config

import (
	"time"
)

// Config is the top-level configuration structure for tmsync.
type Config struct {
	TestRail TestRailConfig `yaml:"testrail"`
	Project  ProjectConfig  `yaml:"project"`
	Mapping  MappingConfig  `yaml:"mapping"`
	Sync     SyncConfig     `yaml:"sync"`
}

// TestRailConfig holds the remote endpoint and credentials.
type TestRailConfig struct {
	URL        string        `yaml:"url,omitempty"`
	User       string        `yaml:"user,omitempty"`
	APIKey     string        `yaml:"apiKey,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	TemplateID int           `yaml:"templateId,omitempty"` // Template used for every created case
}

// ProjectConfig identifies the remote project new mappings are bound to.
type ProjectConfig struct {
	ID string `yaml:"id,omitempty"`
}

// MappingConfig locates the persisted identity mapping.
type MappingConfig struct {
	Path string `yaml:"path,omitempty"`
}

// SyncConfig tunes the reconciliation pass.
type SyncConfig struct {
	// PersistIncrementally saves the mapping after every successful case
	// creation or deletion instead of once at the end of the pass.
	PersistIncrementally bool   `yaml:"persistIncrementally,omitempty"`
	SectionName          string `yaml:"sectionName,omitempty"` // Defaults to the imported file's base name
}
