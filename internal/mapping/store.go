package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"tmsync/pkg/logging"
)

// ErrLocked is returned by FileStore.Lock when another process holds the
// mapping file.
var ErrLocked = errors.New("mapping file is locked by another process")

// Store loads and persists a Mapping.
type Store interface {
	Load() (*Mapping, error)
	Save(m *Mapping) error
}

// FileStore persists a Mapping as YAML. JSON mapping files are valid YAML and
// load unchanged; they are rewritten as YAML on the next save.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the mapping file location.
func (s *FileStore) Path() string {
	return s.path
}

// Lock takes an exclusive, non-blocking lock next to the mapping file. The
// returned function releases it.
func (s *FileStore) Lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create mapping directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock mapping file %s: %w", s.path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, s.path)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			logging.Warn("Mapping", "Failed to release lock on %s: %v", s.path, err)
		}
	}, nil
}

// Load reads the mapping file. A missing file yields an empty mapping.
func (s *FileStore) Load() (*Mapping, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Mapping", "No mapping at %s, starting empty", s.path)
			return New(""), nil
		}
		return nil, fmt.Errorf("failed to read mapping %s: %w", s.path, err)
	}

	m := New("")
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping %s: %w", s.path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping %s: %w", s.path, err)
	}

	logging.Debug("Mapping", "Loaded %d file entries from %s", len(m.Files), s.path)
	return m, nil
}

// Save writes a complete snapshot atomically.
func (s *FileStore) Save(m *Mapping) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to save inconsistent mapping: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		return fmt.Errorf("failed to replace mapping: %w", err)
	}

	logging.Debug("Mapping", "Saved %d file entries to %s", len(m.Files), s.path)
	return nil
}

// MemoryStore keeps snapshots in memory. Every Save stores a deep copy.
type MemoryStore struct {
	mu        sync.Mutex
	current   *Mapping
	snapshots []*Mapping
	SaveErr   error
}

// NewMemoryStore returns a store preloaded with m (may be nil).
func NewMemoryStore(m *Mapping) *MemoryStore {
	s := &MemoryStore{}
	if m != nil {
		s.current = m.Clone()
	}
	return s
}

// Load implements Store.
func (s *MemoryStore) Load() (*Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return New(""), nil
	}
	return s.current.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(m *Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if err := m.Validate(); err != nil {
		return err
	}
	s.current = m.Clone()
	s.snapshots = append(s.snapshots, m.Clone())
	return nil
}

// Snapshots returns every saved snapshot in order.
func (s *MemoryStore) Snapshots() []*Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Mapping(nil), s.snapshots...)
}
