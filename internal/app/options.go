package app

import (
	"path/filepath"
	"strings"

	"tmsync/internal/testdef"
)

// Target selects the local file an operation works on: a script, or a plan
// together with one of its subplans.
type Target struct {
	ScriptPath string
	PlanPath   string
	SubPlan    string
}

// Validate enforces exactly one of script or plan, and a subplan with plans.
func (t Target) Validate() error {
	switch {
	case t.ScriptPath == "" && t.PlanPath == "":
		return testdef.Invalid("script", "one of --script or --plan is required")
	case t.ScriptPath != "" && t.PlanPath != "":
		return testdef.Invalid("script", "--script and --plan are mutually exclusive")
	case t.PlanPath != "" && t.SubPlan == "":
		return testdef.Invalid("subplan", "--subplan is required with --plan")
	case t.ScriptPath != "" && t.SubPlan != "":
		return testdef.Invalid("subplan", "--subplan only applies to --plan")
	}
	return nil
}

// Path is the local file the target points to, in the slash separated
// form the mapping is keyed by.
func (t Target) Path() string {
	p := t.ScriptPath
	if t.PlanPath != "" {
		p = t.PlanPath
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// ParseRequest turns the target into a parser request.
func (t Target) ParseRequest() testdef.ParseRequest {
	if t.PlanPath != "" {
		return testdef.ParseRequest{Path: t.Path(), Kind: testdef.KindPlan, SubPlan: t.SubPlan}
	}
	return testdef.ParseRequest{Path: t.Path(), Kind: testdef.KindScript}
}

// ImportOptions are the inputs of one import.
type ImportOptions struct {
	Target
	// Scenarios restricts the import to the named scenarios (scripts only).
	Scenarios    []string
	CopySuiteURL bool
}

// Validate checks the flag combination.
func (o ImportOptions) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if len(o.Scenarios) > 0 && o.PlanPath != "" {
		return testdef.Invalid("scenario", "--scenario only applies to --script")
	}
	for _, s := range o.Scenarios {
		if strings.TrimSpace(s) == "" {
			return testdef.Invalid("scenario", "empty scenario name in filter")
		}
	}
	return nil
}

// CloseRunsOptions are the inputs of one close-runs invocation.
type CloseRunsOptions struct {
	Target
}

// SplitScenarios parses a comma separated scenario list, trimming blanks.
func SplitScenarios(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
