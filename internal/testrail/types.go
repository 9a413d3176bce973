package testrail

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// RemoteSuite is a suite as returned by add_suite.
type RemoteSuite struct {
	ID   string
	Name string
	URL  string
}

// RemoteSection is a section beneath a suite.
type RemoteSection struct {
	ID      string
	SuiteID string
	Name    string
}

// RemoteCase is a test case.
type RemoteCase struct {
	ID        string
	SectionID string
	SuiteID   string
	Title     string
}

// RemoteRun is a test run over a suite's cases.
type RemoteRun struct {
	ID          string
	SuiteID     string
	Name        string
	URL         string
	IsCompleted bool
}

// SeparatedStep is one entry of custom_steps_separated.
type SeparatedStep struct {
	Content  string `json:"content"`
	Expected string `json:"expected"`
}

// CaseBody is the request body of add_case and update_case.
type CaseBody struct {
	Title                string          `json:"title"`
	TemplateID           int             `json:"template_id"`
	Preconditions        string          `json:"custom_preconds"`
	CustomStepsSeparated []SeparatedStep `json:"custom_steps_separated"`
}

type addSuiteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type addSectionRequest struct {
	SuiteID json.Number `json:"suite_id"`
	Name    string      `json:"name"`
}

type reorderCasesRequest struct {
	CaseIDs []json.Number `json:"case_ids"`
}

func parseSuite(r gjson.Result) RemoteSuite {
	return RemoteSuite{
		ID:   r.Get("id").String(),
		Name: r.Get("name").String(),
		URL:  r.Get("url").String(),
	}
}

func parseSection(r gjson.Result) RemoteSection {
	return RemoteSection{
		ID:      r.Get("id").String(),
		SuiteID: r.Get("suite_id").String(),
		Name:    r.Get("name").String(),
	}
}

func parseCase(r gjson.Result) RemoteCase {
	return RemoteCase{
		ID:        r.Get("id").String(),
		SectionID: r.Get("section_id").String(),
		SuiteID:   r.Get("suite_id").String(),
		Title:     r.Get("title").String(),
	}
}

func parseRun(r gjson.Result) RemoteRun {
	return RemoteRun{
		ID:          r.Get("id").String(),
		SuiteID:     r.Get("suite_id").String(),
		Name:        r.Get("name").String(),
		URL:         r.Get("url").String(),
		IsCompleted: r.Get("is_completed").Bool(),
	}
}
