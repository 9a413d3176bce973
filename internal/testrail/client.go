package testrail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"tmsync/pkg/logging"
)

// Client issues typed remote operations over a Transport. GET responses are
// cached per client and the cache is dropped on every POST.
type Client struct {
	transport Transport

	mu    sync.Mutex
	cache map[string][]byte
}

// NewClient creates a client bound to a transport.
func NewClient(transport Transport) *Client {
	return &Client{
		transport: transport,
		cache:     make(map[string][]byte),
	}
}

// CreateSuite creates a suite in a project.
func (c *Client) CreateSuite(ctx context.Context, projectID, name string) (RemoteSuite, error) {
	path := "add_suite/" + projectID
	res, err := c.post(ctx, "add_suite", path, addSuiteRequest{Name: name})
	if err != nil {
		return RemoteSuite{}, err
	}
	suite := parseSuite(res)
	if suite.ID == "" {
		return RemoteSuite{}, missingID("add_suite", path)
	}
	logging.Info("TestRail", "Created suite %s (%s)", suite.ID, name)
	return suite, nil
}

// CreateSection creates a section in a suite.
func (c *Client) CreateSection(ctx context.Context, projectID, suiteID, name string) (RemoteSection, error) {
	path := "add_section/" + projectID
	res, err := c.post(ctx, "add_section", path, addSectionRequest{SuiteID: json.Number(suiteID), Name: name})
	if err != nil {
		return RemoteSection{}, err
	}
	section := parseSection(res)
	if section.ID == "" {
		return RemoteSection{}, missingID("add_section", path)
	}
	logging.Info("TestRail", "Created section %s in suite %s", section.ID, suiteID)
	return section, nil
}

// CreateCase adds a case below a section.
func (c *Client) CreateCase(ctx context.Context, sectionID string, body CaseBody) (RemoteCase, error) {
	path := "add_case/" + sectionID
	res, err := c.post(ctx, "add_case", path, body)
	if err != nil {
		return RemoteCase{}, err
	}
	rc := parseCase(res)
	if rc.ID == "" {
		return RemoteCase{}, missingID("add_case", path)
	}
	return rc, nil
}

// UpdateCase overwrites a case with body.
func (c *Client) UpdateCase(ctx context.Context, caseID string, body CaseBody) (RemoteCase, error) {
	path := "update_case/" + caseID
	res, err := c.post(ctx, "update_case", path, body)
	if err != nil {
		return RemoteCase{}, err
	}
	rc := parseCase(res)
	if rc.ID == "" {
		rc.ID = caseID
	}
	return rc, nil
}

// DeleteCases deletes cases one by one; the first failure aborts the call.
func (c *Client) DeleteCases(ctx context.Context, ids []string) error {
	for _, id := range ids {
		path := "delete_case/" + id
		if _, err := c.postRaw(ctx, "delete_case", path, nil); err != nil {
			return err
		}
		logging.Debug("TestRail", "Deleted case %s", id)
	}
	return nil
}

// ListCasesForSuite lists every case of a suite, following pagination.
func (c *Client) ListCasesForSuite(ctx context.Context, projectID, suiteID string) ([]RemoteCase, error) {
	items, err := c.list(ctx, "get_cases", fmt.Sprintf("get_cases/%s&suite_id=%s", projectID, suiteID), "cases")
	if err != nil {
		return nil, err
	}
	cases := make([]RemoteCase, 0, len(items))
	for _, item := range items {
		cases = append(cases, parseCase(item))
	}
	return cases, nil
}

// ListSections lists the sections of a suite.
func (c *Client) ListSections(ctx context.Context, projectID, suiteID string) ([]RemoteSection, error) {
	items, err := c.list(ctx, "get_sections", fmt.Sprintf("get_sections/%s&suite_id=%s", projectID, suiteID), "sections")
	if err != nil {
		return nil, err
	}
	sections := make([]RemoteSection, 0, len(items))
	for _, item := range items {
		sections = append(sections, parseSection(item))
	}
	return sections, nil
}

// ReorderCases sets the display order of a section's cases.
func (c *Client) ReorderCases(ctx context.Context, sectionID string, orderedCaseIDs []string) error {
	ids := make([]json.Number, 0, len(orderedCaseIDs))
	for _, id := range orderedCaseIDs {
		ids = append(ids, json.Number(id))
	}
	_, err := c.postRaw(ctx, "reorder_cases", "reorder_cases/"+sectionID, reorderCasesRequest{CaseIDs: ids})
	return err
}

// ListRuns lists the runs of a suite; activeOnly restricts to open runs.
func (c *Client) ListRuns(ctx context.Context, projectID, suiteID string, activeOnly bool) ([]RemoteRun, error) {
	path := fmt.Sprintf("get_runs/%s&suite_id=%s", projectID, suiteID)
	if activeOnly {
		path += "&is_completed=0"
	}
	items, err := c.list(ctx, "get_runs", path, "runs")
	if err != nil {
		return nil, err
	}
	runs := make([]RemoteRun, 0, len(items))
	for _, item := range items {
		run := parseRun(item)
		if activeOnly && run.IsCompleted {
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// CloseRun closes a run and returns its final state.
func (c *Client) CloseRun(ctx context.Context, runID string) (RemoteRun, error) {
	path := "close_run/" + runID
	res, err := c.post(ctx, "close_run", path, nil)
	if err != nil {
		return RemoteRun{}, err
	}
	run := parseRun(res)
	if run.ID == "" {
		run.ID = runID
	}
	return run, nil
}

// list fetches a collection, accepting a bare array or a paginated object
// holding the items under key.
func (c *Client) list(ctx context.Context, op, path, key string) ([]gjson.Result, error) {
	var items []gjson.Result
	seen := make(map[string]bool)

	for next := path; next != "" && !seen[next]; {
		seen[next] = true

		res, err := c.get(ctx, op, next)
		if err != nil {
			return nil, err
		}
		if res.IsArray() {
			return append(items, res.Array()...), nil
		}

		page := res.Get(key)
		if !page.IsArray() {
			return nil, &RemoteAPIError{Op: op, Path: next, Message: fmt.Sprintf("response has no %q list", key)}
		}
		items = append(items, page.Array()...)

		next = nextPage(res.Get("_links.next").String())
	}
	return items, nil
}

// nextPage converts a "_links.next" value into a transport path.
func nextPage(link string) string {
	link = strings.TrimPrefix(link, "/")
	link = strings.TrimPrefix(link, apiPrefix)
	return strings.TrimPrefix(link, "api/v2/")
}

func (c *Client) get(ctx context.Context, op, path string) (gjson.Result, error) {
	c.mu.Lock()
	data, ok := c.cache[path]
	c.mu.Unlock()

	if !ok {
		var err error
		data, err = c.transport.SendGet(ctx, path)
		if err != nil {
			return gjson.Result{}, withOp(op, path, err)
		}
		c.mu.Lock()
		c.cache[path] = data
		c.mu.Unlock()
	}

	return parse(op, path, data)
}

func (c *Client) post(ctx context.Context, op, path string, body interface{}) (gjson.Result, error) {
	data, err := c.postRaw(ctx, op, path, body)
	if err != nil {
		return gjson.Result{}, err
	}
	return parse(op, path, data)
}

func (c *Client) postRaw(ctx context.Context, op, path string, body interface{}) ([]byte, error) {
	c.mu.Lock()
	c.cache = make(map[string][]byte)
	c.mu.Unlock()

	data, err := c.transport.SendPost(ctx, path, body)
	if err != nil {
		return nil, withOp(op, path, err)
	}
	return data, nil
}

func parse(op, path string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &RemoteAPIError{Op: op, Path: path, Message: "unparsable response"}
	}
	return gjson.ParseBytes(data), nil
}

func missingID(op, path string) error {
	return &RemoteAPIError{Op: op, Path: path, Message: "response carries no id"}
}
