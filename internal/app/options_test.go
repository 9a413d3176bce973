package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tmsync/internal/testdef"
)

func TestImportOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		opts      ImportOptions
		wantField string
	}{
		{name: "script", opts: ImportOptions{Target: Target{ScriptPath: "a.yaml"}}},
		{name: "script with filter", opts: ImportOptions{Target: Target{ScriptPath: "a.yaml"}, Scenarios: []string{"A"}}},
		{name: "plan", opts: ImportOptions{Target: Target{PlanPath: "p.yaml", SubPlan: "nightly"}}},
		{name: "nothing", opts: ImportOptions{}, wantField: "script"},
		{name: "both", opts: ImportOptions{Target: Target{ScriptPath: "a.yaml", PlanPath: "p.yaml", SubPlan: "x"}}, wantField: "script"},
		{name: "plan without subplan", opts: ImportOptions{Target: Target{PlanPath: "p.yaml"}}, wantField: "subplan"},
		{name: "subplan with script", opts: ImportOptions{Target: Target{ScriptPath: "a.yaml", SubPlan: "x"}}, wantField: "subplan"},
		{name: "filter with plan", opts: ImportOptions{Target: Target{PlanPath: "p.yaml", SubPlan: "x"}, Scenarios: []string{"A"}}, wantField: "scenario"},
		{name: "blank filter entry", opts: ImportOptions{Target: Target{ScriptPath: "a.yaml"}, Scenarios: []string{" "}}, wantField: "scenario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var valErr *testdef.ValidationError
			if assert.True(t, errors.As(err, &valErr)) {
				assert.Equal(t, tt.wantField, valErr.Field)
			}
		})
	}
}

func TestTarget_ParseRequest(t *testing.T) {
	req := Target{PlanPath: "./plans//smoke.yaml", SubPlan: "nightly"}.ParseRequest()
	assert.Equal(t, testdef.ParseRequest{Path: "plans/smoke.yaml", Kind: testdef.KindPlan, SubPlan: "nightly"}, req)

	req = Target{ScriptPath: "tests/login.yaml"}.ParseRequest()
	assert.Equal(t, testdef.KindScript, req.Kind)
}

func TestSplitScenarios(t *testing.T) {
	assert.Equal(t, []string{"A", "B c"}, SplitScenarios(" A,, B c ,"))
	assert.Nil(t, SplitScenarios(""))
}
