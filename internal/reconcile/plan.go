package reconcile

import (
	"strings"

	"tmsync/internal/mapping"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
)

// CaseOp is a pending create or update of one remote case.
type CaseOp struct {
	Key  mapping.Key
	Case testdef.LocalCase
	Body testrail.CaseBody
	Link *mapping.ScenarioLink // Nil for creates
}

// Plan is the outcome of diffing a local tree against a file entry.
type Plan struct {
	Creates []CaseOp
	Updates []CaseOp
	Deletes []*mapping.ScenarioLink
	// Skipped holds local cases whose body has no step left to send.
	Skipped []mapping.Key
	// Keys holds the identity of every local case, in local order.
	Keys []mapping.Key
}

// KeyFor returns the composite identity of a local case. Scripts own their
// scenarios; in a plan the embedded script does.
func KeyFor(tree *testdef.Tree, c testdef.LocalCase) mapping.Key {
	owner := tree.Path
	if tree.Kind == testdef.KindPlan {
		owner = c.ScriptName
	}
	return mapping.NewKey(owner, c.ScenarioName, c.Row)
}

// CheckTree rejects trees that would produce ambiguous links.
func CheckTree(tree *testdef.Tree) error {
	seen := make(map[mapping.Key]bool, len(tree.Cases))
	for _, c := range tree.Cases {
		if strings.TrimSpace(c.ScenarioName) == "" {
			return &ReconciliationError{Msg: "scenario without a name in " + tree.Path}
		}
		key := KeyFor(tree, c)
		if seen[key] {
			return &ReconciliationError{Scenario: key.String(), Msg: "duplicate scenario identity in local tree"}
		}
		seen[key] = true
	}
	return nil
}

// Diff computes creates, updates and deletes for one file. entry may be nil
// for a file that has never been imported. When only is non-empty, creates
// and updates are restricted to those scenario names; deletes always compare
// against the full local tree.
func Diff(entry *mapping.FileEntry, tree *testdef.Tree, only []string, templateID int) (*Plan, error) {
	if err := CheckTree(tree); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(only))
	for _, name := range only {
		selected[name] = true
	}

	plan := &Plan{}
	local := make(map[mapping.Key]bool, len(tree.Cases))

	for _, c := range tree.Cases {
		key := KeyFor(tree, c)
		local[key] = true
		plan.Keys = append(plan.Keys, key)

		if len(selected) > 0 && !selected[c.ScenarioName] {
			continue
		}

		body, ok := testrail.BuildCaseBody(c, templateID)
		if !ok {
			plan.Skipped = append(plan.Skipped, key)
			continue
		}

		var link *mapping.ScenarioLink
		if entry != nil {
			link, _ = entry.Link(key)
		}
		op := CaseOp{Key: key, Case: c, Body: body, Link: link}
		if link != nil {
			plan.Updates = append(plan.Updates, op)
		} else {
			plan.Creates = append(plan.Creates, op)
		}
	}

	if entry != nil {
		for _, link := range entry.Scenarios {
			if !local[link.Key()] {
				plan.Deletes = append(plan.Deletes, link)
			}
		}
	}

	return plan, nil
}
