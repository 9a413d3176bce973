package testrail

import (
	"sort"
	"strconv"
	"strings"

	"tmsync/internal/testdef"
)

const (
	// Preconditions is sent with every case; the steps carry the detail.
	Preconditions = "See the Steps section for details"

	// DefaultTemplateID is the "Test Case (Steps)" template.
	DefaultTemplateID = 2

	stepsHeader = "||| Row | Test Step\n"
	nbsp        = "\u00a0"
)

// bddKeywords are the leading tokens that keep a description flush left.
// "SCENARIO OUTLINE" is matched through its first token.
var bddKeywords = map[string]bool{
	"FEATURE":    true,
	"RULE":       true,
	"GIVEN":      true,
	"SCENARIO":   true,
	"EXAMPLE":    true,
	"WHEN":       true,
	"THEN":       true,
	"AND":        true,
	"BUT":        true,
	"BACKGROUND": true,
}

// FormatDescription indents a description with a non-breaking space unless
// its first token is a BDD keyword other than AND. Matching is case sensitive.
func FormatDescription(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return nbsp + description
	}
	first := fields[0]
	if !bddKeywords[first] || first == "AND" {
		return nbsp + description
	}
	return description
}

// TruncateMessageID cuts a message identifier at its "[STEP" suffix.
func TruncateMessageID(id string) string {
	if i := strings.Index(id, "[STEP"); i >= 0 {
		id = id[:i]
	}
	return strings.TrimRight(id, " \t")
}

// RenderExpected builds the expected-result block of one step. The second
// return value is false when every custom step is blank, in which case the
// step must be left out of the case body.
func RenderExpected(step testdef.LocalStep) (string, bool) {
	customSteps := make([]testdef.LocalCustomStep, 0, len(step.CustomSteps))
	for _, cs := range step.CustomSteps {
		if strings.TrimSpace(cs.Description) != "" {
			customSteps = append(customSteps, cs)
		}
	}
	if len(customSteps) == 0 {
		return "", false
	}
	sort.SliceStable(customSteps, func(i, j int) bool {
		return customSteps[i].RowIndex < customSteps[j].RowIndex
	})

	var b strings.Builder
	b.WriteString(stepsHeader)
	for _, cs := range customSteps {
		b.WriteString("|| ")
		b.WriteString(strconv.Itoa(cs.RowIndex + 1))
		b.WriteString(" | ")
		b.WriteString(FormatDescription(cs.Description))
		b.WriteString("\n")
	}
	b.WriteString(TruncateMessageID(step.MessageID))
	return b.String(), true
}

// BuildSteps renders every step that has at least one non-blank custom step,
// in local order.
func BuildSteps(steps []testdef.LocalStep) []SeparatedStep {
	out := make([]SeparatedStep, 0, len(steps))
	for _, step := range steps {
		expected, ok := RenderExpected(step)
		if !ok {
			continue
		}
		out = append(out, SeparatedStep{
			Content:  step.ActivityName,
			Expected: expected,
		})
	}
	return out
}

// CaseTitle is the remote title of a local case.
func CaseTitle(c testdef.LocalCase) string {
	return c.Label()
}

// BuildCaseBody renders the full request body for a local case. It returns
// false when no step survives, meaning the case must not be sent.
func BuildCaseBody(c testdef.LocalCase, templateID int) (CaseBody, bool) {
	steps := BuildSteps(c.Steps)
	if len(steps) == 0 {
		return CaseBody{}, false
	}
	return CaseBody{
		Title:                CaseTitle(c),
		TemplateID:           templateID,
		Preconditions:        Preconditions,
		CustomStepsSeparated: steps,
	}, true
}
