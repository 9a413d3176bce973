package mapping

import (
	"fmt"
	"strconv"
)

// FileKind mirrors testdef.Kind in the persisted form.
type FileKind string

const (
	FileKindScript FileKind = "script"
	FileKindPlan   FileKind = "plan"
)

// Mapping is the persisted correspondence between local files and remote
// identities for one project.
type Mapping struct {
	ProjectID string       `yaml:"projectId" json:"projectId"`
	Files     []*FileEntry `yaml:"files" json:"files"`

	index map[string]int
}

// FileEntry maps one local file to its suite, section and cases.
type FileEntry struct {
	Path      string          `yaml:"path" json:"path"`
	FileType  FileKind        `yaml:"fileType" json:"fileType"`
	SuiteID   string          `yaml:"suiteId,omitempty" json:"suiteId,omitempty"`
	SuiteURL  string          `yaml:"suiteUrl,omitempty" json:"suiteUrl,omitempty"`
	SectionID string          `yaml:"sectionId,omitempty" json:"sectionId,omitempty"`
	StepID    string          `yaml:"stepId,omitempty" json:"stepId,omitempty"`
	SubStep   string          `yaml:"subStep,omitempty" json:"subStep,omitempty"`
	PlanSteps []*FileEntry    `yaml:"planSteps,omitempty" json:"planSteps,omitempty"`
	Scenarios []*ScenarioLink `yaml:"scenarios" json:"scenarios"`

	index map[Key]int
}

// ScenarioLink ties a local scenario to a remote case.
type ScenarioLink struct {
	TestCase     string `yaml:"testCase" json:"testCase"` // Owning script
	ScenarioName string `yaml:"scenarioName" json:"scenarioName"`
	Row          *int   `yaml:"row,omitempty" json:"row,omitempty"`
	TestCaseID   string `yaml:"testCaseId" json:"testCaseId"`
}

// Key is the composite identity of a scenario: owning file, scenario name
// and, for plan-embedded scripts, the row. It is the only join key between
// local and remote state.
type Key struct {
	File     string
	Scenario string
	Row      string // "" when absent
}

// NewKey builds a Key from its parts.
func NewKey(file, scenario string, row *int) Key {
	k := Key{File: file, Scenario: scenario}
	if row != nil {
		k.Row = strconv.Itoa(*row)
	}
	return k
}

func (k Key) String() string {
	if k.Row == "" {
		return fmt.Sprintf("%s/%s", k.File, k.Scenario)
	}
	return fmt.Sprintf("%s/%s#%s", k.File, k.Scenario, k.Row)
}

// Key returns the composite identity of the link.
func (l *ScenarioLink) Key() Key {
	return NewKey(l.TestCase, l.ScenarioName, l.Row)
}
