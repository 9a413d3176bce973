package mapping

import "fmt"

// New returns an empty mapping for a project.
func New(projectID string) *Mapping {
	return &Mapping{ProjectID: projectID}
}

func (m *Mapping) reindex() {
	m.index = make(map[string]int, len(m.Files))
	for i, f := range m.Files {
		m.index[f.Path] = i
	}
}

// File looks up a file entry by local path.
func (m *Mapping) File(path string) (*FileEntry, bool) {
	if m.index == nil {
		m.reindex()
	}
	i, ok := m.index[path]
	if !ok {
		return nil, false
	}
	return m.Files[i], true
}

// UpsertFile inserts a file entry or replaces the one with the same path,
// keeping its position.
func (m *Mapping) UpsertFile(entry *FileEntry) {
	if i, ok := m.indexOf(entry.Path); ok {
		m.Files[i] = entry
	} else {
		m.Files = append(m.Files, entry)
	}
	m.reindex()
}

// RemoveFile drops the entry for path. It reports whether one existed.
func (m *Mapping) RemoveFile(path string) bool {
	i, ok := m.indexOf(path)
	if !ok {
		return false
	}
	m.Files = append(m.Files[:i], m.Files[i+1:]...)
	m.reindex()
	return true
}

func (m *Mapping) indexOf(path string) (int, bool) {
	if m.index == nil {
		m.reindex()
	}
	i, ok := m.index[path]
	return i, ok
}

// Validate checks the uniqueness invariants: file paths within the mapping
// and composite identities within every file entry.
func (m *Mapping) Validate() error {
	seen := make(map[string]bool, len(m.Files))
	for _, f := range m.Files {
		if f.Path == "" {
			return fmt.Errorf("file entry without path")
		}
		if seen[f.Path] {
			return fmt.Errorf("duplicate file entry %q", f.Path)
		}
		seen[f.Path] = true
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy, used for snapshots.
func (m *Mapping) Clone() *Mapping {
	out := &Mapping{ProjectID: m.ProjectID}
	for _, f := range m.Files {
		out.Files = append(out.Files, f.Clone())
	}
	return out
}

func (f *FileEntry) reindex() {
	f.index = make(map[Key]int, len(f.Scenarios))
	for i, l := range f.Scenarios {
		f.index[l.Key()] = i
	}
}

// Link looks up a scenario link by composite identity.
func (f *FileEntry) Link(key Key) (*ScenarioLink, bool) {
	if f.index == nil {
		f.reindex()
	}
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return f.Scenarios[i], true
}

// UpsertLink inserts a link or replaces the one with the same identity.
func (f *FileEntry) UpsertLink(link *ScenarioLink) {
	if f.index == nil {
		f.reindex()
	}
	if i, ok := f.index[link.Key()]; ok {
		f.Scenarios[i] = link
	} else {
		f.Scenarios = append(f.Scenarios, link)
	}
	f.reindex()
}

// RemoveLink drops the link with the given identity.
func (f *FileEntry) RemoveLink(key Key) bool {
	if f.index == nil {
		f.reindex()
	}
	i, ok := f.index[key]
	if !ok {
		return false
	}
	f.Scenarios = append(f.Scenarios[:i], f.Scenarios[i+1:]...)
	f.reindex()
	return true
}

// Keys lists the identities of all links in stored order.
func (f *FileEntry) Keys() []Key {
	keys := make([]Key, 0, len(f.Scenarios))
	for _, l := range f.Scenarios {
		keys = append(keys, l.Key())
	}
	return keys
}

// PlanStep looks up a nested plan-step entry by script path.
func (f *FileEntry) PlanStep(path string) (*FileEntry, bool) {
	for _, ps := range f.PlanSteps {
		if ps.Path == path {
			return ps, true
		}
	}
	return nil, false
}

// Validate checks composite identity uniqueness, recursively.
func (f *FileEntry) Validate() error {
	seen := make(map[Key]bool, len(f.Scenarios))
	for _, l := range f.Scenarios {
		k := l.Key()
		if seen[k] {
			return fmt.Errorf("file %q: duplicate scenario link %s", f.Path, k)
		}
		seen[k] = true
	}
	for _, ps := range f.PlanSteps {
		if err := ps.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the entry.
func (f *FileEntry) Clone() *FileEntry {
	out := *f
	out.index = nil
	out.PlanSteps = nil
	out.Scenarios = nil
	for _, ps := range f.PlanSteps {
		out.PlanSteps = append(out.PlanSteps, ps.Clone())
	}
	for _, l := range f.Scenarios {
		link := *l
		if l.Row != nil {
			row := *l.Row
			link.Row = &row
		}
		out.Scenarios = append(out.Scenarios, &link)
	}
	return &out
}
