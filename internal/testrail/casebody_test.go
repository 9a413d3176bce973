package testrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/testdef"
)

func TestFormatDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"given keyword kept", "GIVEN a user", "GIVEN a user"},
		{"then keyword kept", "THEN it works", "THEN it works"},
		{"scenario outline kept", "SCENARIO OUTLINE: many", "SCENARIO OUTLINE: many"},
		{"and is indented", "AND another thing", "\u00a0AND another thing"},
		{"plain text indented", "deploy service", "\u00a0deploy service"},
		{"lowercase keyword indented", "given a user", "\u00a0given a user"},
		{"keyword prefix only", "GIVENS are odd", "\u00a0GIVENS are odd"},
		{"leading whitespace keyword", "  WHEN clicked", "  WHEN clicked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDescription(tt.in))
		})
	}
}

func TestTruncateMessageID(t *testing.T) {
	assert.Equal(t, "MSG-1", TruncateMessageID("MSG-1 [STEP 4]"))
	assert.Equal(t, "MSG-1", TruncateMessageID("MSG-1[STEP_4] trailing"))
	assert.Equal(t, "MSG-2", TruncateMessageID("MSG-2"))
	assert.Equal(t, "", TruncateMessageID(""))
}

func TestRenderExpected_SkipsBlankRows(t *testing.T) {
	step := testdef.LocalStep{
		ActivityName: "Deploy",
		MessageID:    "DEP-7 [STEP 2]",
		CustomSteps: []testdef.LocalCustomStep{
			{RowIndex: 0, Description: ""},
			{RowIndex: 1, Description: "deploy service"},
			{RowIndex: 2, Description: ""},
		},
	}

	got, ok := RenderExpected(step)
	require.True(t, ok)
	assert.Equal(t, "||| Row | Test Step\n|| 2 | \u00a0deploy service\nDEP-7", got)
}

func TestRenderExpected_OrdersByRow(t *testing.T) {
	step := testdef.LocalStep{
		CustomSteps: []testdef.LocalCustomStep{
			{RowIndex: 5, Description: "THEN done"},
			{RowIndex: 3, Description: "GIVEN start"},
		},
	}

	got, ok := RenderExpected(step)
	require.True(t, ok)
	assert.Equal(t, "||| Row | Test Step\n|| 4 | GIVEN start\n|| 6 | THEN done\n", got)
}

// Steps whose custom steps are all blank are dropped from the body. This
// mirrors the behaviour existing suites were built with; a step without any
// description never reaches the remote.
func TestRenderExpected_AllBlankStepIsOmitted(t *testing.T) {
	_, ok := RenderExpected(testdef.LocalStep{
		ActivityName: "Silent",
		CustomSteps:  []testdef.LocalCustomStep{{RowIndex: 0, Description: "  "}, {RowIndex: 1}},
	})
	assert.False(t, ok)

	_, ok = RenderExpected(testdef.LocalStep{ActivityName: "No rows"})
	assert.False(t, ok, "a step with no custom steps is omitted as well")
}

func TestBuildCaseBody(t *testing.T) {
	c := testdef.LocalCase{
		ScenarioName: "Checkout",
		ScriptName:   "shop",
		Steps: []testdef.LocalStep{
			{ActivityName: "Empty", CustomSteps: []testdef.LocalCustomStep{{RowIndex: 0}}},
			{ActivityName: "Pay", MessageID: "PAY", CustomSteps: []testdef.LocalCustomStep{{RowIndex: 1, Description: "WHEN paying"}}},
		},
	}

	body, ok := BuildCaseBody(c, 2)
	require.True(t, ok)
	assert.Equal(t, "Checkout", body.Title)
	assert.Equal(t, 2, body.TemplateID)
	assert.Equal(t, Preconditions, body.Preconditions)
	require.Len(t, body.CustomStepsSeparated, 1, "the all-blank step is omitted")
	assert.Equal(t, "Pay", body.CustomStepsSeparated[0].Content)
	assert.Equal(t, "||| Row | Test Step\n|| 2 | WHEN paying\nPAY", body.CustomStepsSeparated[0].Expected)
}

func TestBuildCaseBody_NoSurvivingSteps(t *testing.T) {
	_, ok := BuildCaseBody(testdef.LocalCase{
		ScenarioName: "Hollow",
		Steps:        []testdef.LocalStep{{ActivityName: "Nothing"}},
	}, 2)
	assert.False(t, ok)
}

func TestCaseTitle_PlanRow(t *testing.T) {
	c := testdef.LocalCase{ScenarioName: "Login", ScriptName: "auth", Row: testdef.IntPtr(0)}
	assert.Equal(t, "auth [row 1] Login", CaseTitle(c))
}
