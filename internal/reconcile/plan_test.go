package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/mapping"
	"tmsync/internal/testdef"
)

func localCase(name string, desc ...string) testdef.LocalCase {
	var customs []testdef.LocalCustomStep
	for i, d := range desc {
		customs = append(customs, testdef.LocalCustomStep{RowIndex: i, Description: d})
	}
	if len(customs) == 0 {
		customs = []testdef.LocalCustomStep{{RowIndex: 0, Description: "GIVEN " + name}}
	}
	return testdef.LocalCase{
		ScenarioName: name,
		ScriptName:   "login",
		Steps:        []testdef.LocalStep{{ActivityName: "Open", MessageID: "MSG-1 [STEP 1]", CustomSteps: customs}},
	}
}

func scriptTree(names ...string) *testdef.Tree {
	tree := &testdef.Tree{Path: "tests/login.yaml", Kind: testdef.KindScript}
	for _, n := range names {
		tree.Cases = append(tree.Cases, localCase(n))
	}
	return tree
}

func TestKeyFor(t *testing.T) {
	script := scriptTree("A")
	assert.Equal(t, mapping.Key{File: "tests/login.yaml", Scenario: "A"}, KeyFor(script, script.Cases[0]))

	plan := &testdef.Tree{Path: "plans/smoke.yaml", Kind: testdef.KindPlan}
	c := localCase("A")
	c.Row = testdef.IntPtr(3)
	assert.Equal(t, mapping.Key{File: "login", Scenario: "A", Row: "3"}, KeyFor(plan, c))
}

func TestCheckTree(t *testing.T) {
	tests := []struct {
		name    string
		tree    *testdef.Tree
		wantErr bool
	}{
		{name: "unique", tree: scriptTree("A", "B")},
		{name: "duplicate", tree: scriptTree("A", "A"), wantErr: true},
		{name: "blank name", tree: scriptTree("A", "  "), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTree(tt.tree)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var recErr *ReconciliationError
			assert.True(t, errors.As(err, &recErr))
		})
	}
}

func TestCheckTree_SameScenarioOnDifferentRows(t *testing.T) {
	tree := &testdef.Tree{Path: "plans/smoke.yaml", Kind: testdef.KindPlan}
	for _, row := range []int{0, 1} {
		c := localCase("A")
		c.Row = testdef.IntPtr(row)
		tree.Cases = append(tree.Cases, c)
	}
	assert.NoError(t, CheckTree(tree))
}

func TestDiff_NewFile(t *testing.T) {
	plan, err := Diff(nil, scriptTree("A", "B"), nil, 2)
	require.NoError(t, err)

	require.Len(t, plan.Creates, 2)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Deletes)
	assert.Equal(t, "A", plan.Creates[0].Body.Title)
	assert.Equal(t, 2, plan.Creates[0].Body.TemplateID)
}

func TestDiff_ClassifiesCases(t *testing.T) {
	entry := &mapping.FileEntry{
		Path: "tests/login.yaml",
		Scenarios: []*mapping.ScenarioLink{
			{TestCase: "tests/login.yaml", ScenarioName: "A", TestCaseID: "1"},
			{TestCase: "tests/login.yaml", ScenarioName: "B", TestCaseID: "2"},
		},
	}

	plan, err := Diff(entry, scriptTree("A", "C"), nil, 2)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "1", plan.Updates[0].Link.TestCaseID)
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "C", plan.Creates[0].Key.Scenario)
	require.Len(t, plan.Deletes, 1)
	assert.Equal(t, "2", plan.Deletes[0].TestCaseID)
	assert.Equal(t, []mapping.Key{
		{File: "tests/login.yaml", Scenario: "A"},
		{File: "tests/login.yaml", Scenario: "C"},
	}, plan.Keys)
}

func TestDiff_FilterKeepsDeletesAgainstFullTree(t *testing.T) {
	entry := &mapping.FileEntry{
		Path: "tests/login.yaml",
		Scenarios: []*mapping.ScenarioLink{
			{TestCase: "tests/login.yaml", ScenarioName: "A", TestCaseID: "1"},
			{TestCase: "tests/login.yaml", ScenarioName: "B", TestCaseID: "2"},
		},
	}

	plan, err := Diff(entry, scriptTree("A", "B", "C"), []string{"C"}, 2)
	require.NoError(t, err)

	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.Deletes)
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "C", plan.Creates[0].Key.Scenario)
	assert.Len(t, plan.Keys, 3)
}

// A step whose descriptions are all blank is dropped from the body; a case
// left with no step at all cannot be sent and is reported as skipped.
func TestDiff_AllBlankStepsAreSkipped(t *testing.T) {
	tree := scriptTree("A")
	tree.Cases = append(tree.Cases, localCase("Empty", "", " "))

	plan, err := Diff(nil, tree, nil, 2)
	require.NoError(t, err)

	assert.Len(t, plan.Creates, 1)
	assert.Equal(t, []mapping.Key{{File: "tests/login.yaml", Scenario: "Empty"}}, plan.Skipped)
}
