package testdef

import (
	"fmt"
	"strconv"
)

// Kind distinguishes stand-alone scripts from plans that embed scripts.
type Kind string

const (
	KindScript Kind = "script"
	KindPlan   Kind = "plan"
)

// LocalCustomStep is one row-level sub-step of an activity.
type LocalCustomStep struct {
	RowIndex       int    `yaml:"row" json:"row"`
	ScriptRowIndex int    `yaml:"scriptRow" json:"scriptRow"`
	Description    string `yaml:"description" json:"description"`
}

// LocalStep is one activity of a scenario.
type LocalStep struct {
	ActivityName string            `yaml:"activity" json:"activity"`
	MessageID    string            `yaml:"messageId,omitempty" json:"messageId,omitempty"`
	CustomSteps  []LocalCustomStep `yaml:"customSteps,omitempty" json:"customSteps,omitempty"`
}

// LocalCase is one scenario as produced by the test-asset parser.
type LocalCase struct {
	ScenarioName string      `yaml:"scenario" json:"scenario"`
	ScriptName   string      `yaml:"script" json:"script"`
	Row          *int        `yaml:"row,omitempty" json:"row,omitempty"` // Set for scripts embedded in a plan
	Steps        []LocalStep `yaml:"steps" json:"steps"`
}

// Label is a human-readable identity used in logs and summaries.
func (c LocalCase) Label() string {
	if c.Row == nil {
		return c.ScenarioName
	}
	return fmt.Sprintf("%s [row %d] %s", c.ScriptName, *c.Row+1, c.ScenarioName)
}

// Tree is the parsed content of one local test file.
type Tree struct {
	Path      string      `yaml:"path" json:"path"`
	Kind      Kind        `yaml:"kind" json:"kind"`
	SubPlan   string      `yaml:"subPlan,omitempty" json:"subPlan,omitempty"`
	StepID    string      `yaml:"stepId,omitempty" json:"stepId,omitempty"`
	Cases     []LocalCase `yaml:"cases" json:"cases"`
	PlanSteps []Tree      `yaml:"planSteps,omitempty" json:"planSteps,omitempty"`
}

// Filter returns a copy of the tree holding only the named scenarios, in
// their original order. An empty list keeps everything.
func (t *Tree) Filter(names []string) *Tree {
	out := *t
	if len(names) == 0 {
		return &out
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	out.Cases = nil
	for _, c := range t.Cases {
		if wanted[c.ScenarioName] {
			out.Cases = append(out.Cases, c)
		}
	}
	return &out
}

// IntPtr is a small helper for building rows in code and tests.
func IntPtr(v int) *int {
	return &v
}

// RowString renders an optional row for identity keys; absent rows are "".
func RowString(row *int) string {
	if row == nil {
		return ""
	}
	return strconv.Itoa(*row)
}
