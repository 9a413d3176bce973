package reconcile

import (
	"context"
	"fmt"

	"tmsync/internal/testrail"
)

// fakeRemote records every call and hands out sequential ids. Hooks, when
// set, replace the default behaviour of a single operation.
type fakeRemote struct {
	nextID int

	suites   []string
	sections []string
	creates  []testrail.CaseBody
	updates  map[string]testrail.CaseBody
	deletes  [][]string
	reorders [][]string

	existingSections []testrail.RemoteSection

	createCaseHook func(n int, body testrail.CaseBody) error
	deleteHook     func(ids []string) error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{nextID: 100, updates: make(map[string]testrail.CaseBody)}
}

func (f *fakeRemote) id() string {
	f.nextID++
	return fmt.Sprint(f.nextID)
}

func (f *fakeRemote) CreateSuite(_ context.Context, _, name string) (testrail.RemoteSuite, error) {
	f.suites = append(f.suites, name)
	id := f.id()
	return testrail.RemoteSuite{ID: id, Name: name, URL: "https://tms.example.com/index.php?/suites/view/" + id}, nil
}

func (f *fakeRemote) CreateSection(_ context.Context, _, suiteID, name string) (testrail.RemoteSection, error) {
	f.sections = append(f.sections, name)
	return testrail.RemoteSection{ID: f.id(), SuiteID: suiteID, Name: name}, nil
}

func (f *fakeRemote) CreateCase(_ context.Context, sectionID string, body testrail.CaseBody) (testrail.RemoteCase, error) {
	if f.createCaseHook != nil {
		if err := f.createCaseHook(len(f.creates), body); err != nil {
			return testrail.RemoteCase{}, err
		}
	}
	f.creates = append(f.creates, body)
	return testrail.RemoteCase{ID: f.id(), SectionID: sectionID, Title: body.Title}, nil
}

func (f *fakeRemote) UpdateCase(_ context.Context, caseID string, body testrail.CaseBody) (testrail.RemoteCase, error) {
	f.updates[caseID] = body
	return testrail.RemoteCase{ID: caseID, Title: body.Title}, nil
}

func (f *fakeRemote) DeleteCases(_ context.Context, ids []string) error {
	if f.deleteHook != nil {
		if err := f.deleteHook(ids); err != nil {
			return err
		}
	}
	f.deletes = append(f.deletes, ids)
	return nil
}

func (f *fakeRemote) ListSections(context.Context, string, string) ([]testrail.RemoteSection, error) {
	return f.existingSections, nil
}

func (f *fakeRemote) ReorderCases(_ context.Context, _ string, ids []string) error {
	f.reorders = append(f.reorders, append([]string(nil), ids...))
	return nil
}

func (f *fakeRemote) deletedIDs() []string {
	var out []string
	for _, batch := range f.deletes {
		out = append(out, batch...)
	}
	return out
}

// resetCalls forgets recorded calls but keeps the id sequence.
func (f *fakeRemote) resetCalls() {
	f.suites, f.sections, f.creates, f.deletes, f.reorders = nil, nil, nil, nil, nil
	f.updates = make(map[string]testrail.CaseBody)
}
