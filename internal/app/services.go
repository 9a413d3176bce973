package app

import (
	"fmt"

	"tmsync/internal/mapping"
	"tmsync/internal/reconcile"
	"tmsync/internal/runs"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
)

// Remote is everything the application asks of the remote API.
type Remote interface {
	reconcile.Remote
	runs.Remote
}

// Store is a mapping store the application may lock for the duration of an
// operation. Stores without a lock return a no-op release.
type Store interface {
	mapping.Store
	Lock() (func(), error)
}

// Services holds all the initialized collaborators
type Services struct {
	Remote Remote
	Store  Store
	Parser testdef.Parser
}

// InitializeServices wires the remote client, the mapping store and the
// parser from the loaded settings.
func InitializeServices(cfg *Config) (*Services, error) {
	settings := cfg.Settings
	transport, err := testrail.NewHTTPTransport(testrail.TransportConfig{
		URL:       settings.TestRail.URL,
		User:      settings.TestRail.User,
		APIKey:    settings.TestRail.APIKey,
		Timeout:   settings.TestRail.Timeout,
		UserAgent: userAgent(cfg.Version),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &Services{
		Remote: testrail.NewClient(transport),
		Store:  mapping.NewFileStore(settings.Mapping.Path),
		Parser: testdef.NewYAMLParser(),
	}, nil
}

func userAgent(version string) string {
	if version == "" {
		return "tmsync"
	}
	return "tmsync/" + version
}

// unlockedStore adapts a plain mapping.Store, used by tests and the MCP
// server when an in-memory store is injected.
type unlockedStore struct {
	mapping.Store
}

func (unlockedStore) Lock() (func(), error) {
	return func() {}, nil
}

// WithoutLock wraps a store that has no file lock.
func WithoutLock(s mapping.Store) Store {
	return unlockedStore{s}
}

var _ Remote = (*testrail.Client)(nil)
var _ Store = (*mapping.FileStore)(nil)
