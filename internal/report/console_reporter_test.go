package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tmsync/internal/app"
	"tmsync/internal/mapping"
	"tmsync/internal/reconcile"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
)

func TestConsoleReporter_Import(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporter(&buf, 0).Import(&app.ImportResult{
		Path:      "tests/login.yaml",
		Kind:      testdef.KindScript,
		URLCopied: true,
		Result: &reconcile.Result{
			SuiteID:   "9",
			SuiteURL:  "https://tms.example.com/suites/9",
			SectionID: "12",
			Created:   []mapping.Key{{File: "tests/login.yaml", Scenario: "Login works"}},
			Updated:   []mapping.Key{{File: "tests/login.yaml", Scenario: "Logout works"}},
			Deleted:   []mapping.Key{{File: "login", Scenario: "Old", Row: "2"}},
			Skipped:   []mapping.Key{{File: "tests/login.yaml", Scenario: "Draft"}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Imported tests/login.yaml (script)")
	assert.Contains(t, out, "https://tms.example.com/suites/9 (copied)")
	assert.Contains(t, out, "1 created, 1 updated, 1 deleted")
	assert.Contains(t, out, "+ Login works")
	assert.Contains(t, out, "- login [row 2] Old")
	assert.Contains(t, out, "1 without steps")
	assert.Contains(t, out, "! Draft")
	assert.NotContains(t, out, "\x1b[", "no colours when not writing to a terminal")
}

func TestConsoleReporter_CloseRuns(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporter(&buf, 0).CloseRuns(&app.CloseRunsResult{
		Path:    "tests/login.yaml",
		SuiteID: "9",
		Closed:  []testrail.RemoteRun{{ID: "31", Name: "nightly"}, {ID: "32", Name: "smoke"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Closed 2 run(s) of suite 9")
	assert.Contains(t, out, "31       nightly")
}

func TestConsoleReporter_TruncatesWideLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 20)
	r.CloseRuns(&app.CloseRunsResult{
		Closed: []testrail.RemoteRun{{ID: "1", Name: strings.Repeat("長", 30)}},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasSuffix(last, "…"))
	assert.LessOrEqual(t, len([]rune(last)), 20)
}
