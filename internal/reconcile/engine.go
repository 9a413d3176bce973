package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"tmsync/internal/mapping"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
	"tmsync/pkg/logging"
)

// Remote is the subset of the remote client an import pass needs.
type Remote interface {
	CreateSuite(ctx context.Context, projectID, name string) (testrail.RemoteSuite, error)
	CreateSection(ctx context.Context, projectID, suiteID, name string) (testrail.RemoteSection, error)
	CreateCase(ctx context.Context, sectionID string, body testrail.CaseBody) (testrail.RemoteCase, error)
	UpdateCase(ctx context.Context, caseID string, body testrail.CaseBody) (testrail.RemoteCase, error)
	DeleteCases(ctx context.Context, ids []string) error
	ListSections(ctx context.Context, projectID, suiteID string) ([]testrail.RemoteSection, error)
	ReorderCases(ctx context.Context, sectionID string, orderedCaseIDs []string) error
}

// Options tunes an Engine.
type Options struct {
	// ProjectID is used when the mapping does not carry one yet.
	ProjectID  string
	TemplateID int
	// SectionName overrides the default section title (the suite name).
	SectionName string
	// Scenarios restricts creates and updates to the named scenarios.
	Scenarios []string
	// PersistIncrementally saves the mapping after each case create and
	// delete instead of once at the end of the pass.
	PersistIncrementally bool
}

// Result describes a finished or failed pass.
type Result struct {
	State     State
	Trace     []State
	ProjectID string
	SuiteID   string
	SuiteURL  string
	SectionID string
	Created   []mapping.Key
	Updated   []mapping.Key
	Deleted   []mapping.Key
	// Skipped holds cases with no step left to send. Their links, if any,
	// are kept.
	Skipped []mapping.Key
	Order   []string
}

// Engine reconciles one local tree per Import call. It holds no state
// between calls.
type Engine struct {
	remote Remote
	store  mapping.Store
	opts   Options
}

// NewEngine creates an engine over a remote client and a mapping store.
func NewEngine(remote Remote, store mapping.Store, opts Options) *Engine {
	if opts.TemplateID == 0 {
		opts.TemplateID = testrail.DefaultTemplateID
	}
	return &Engine{remote: remote, store: store, opts: opts}
}

// pass carries the state of one Import call.
type pass struct {
	*Engine
	ctx    context.Context
	tree   *testdef.Tree
	result *Result

	mapping    *mapping.Mapping
	entry      *mapping.FileEntry
	freshSuite bool
	plan       *Plan
}

// Import runs one full reconciliation pass for tree. The returned Result is
// non-nil even on error and records the state the pass failed in.
func (e *Engine) Import(ctx context.Context, tree *testdef.Tree) (*Result, error) {
	p := &pass{
		Engine: e,
		ctx:    ctx,
		tree:   tree,
		result: &Result{State: StateInit, Trace: []State{StateInit}},
	}

	steps := []struct {
		next State
		run  func() error
	}{
		{StateSuiteResolved, p.resolveSuite},
		{StateSectionResolved, p.resolveSection},
		{StateCasesDiffed, p.diff},
		{StateCasesApplied, p.apply},
		{StateOrderApplied, p.reorder},
		{StatePersisted, p.persist},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return p.fail(err)
		}
		if err := step.run(); err != nil {
			return p.fail(err)
		}
		p.advance(step.next)
	}

	logging.Info("Reconcile", "Imported %s: %d created, %d updated, %d deleted, %d skipped",
		tree.Path, len(p.result.Created), len(p.result.Updated), len(p.result.Deleted), len(p.result.Skipped))
	return p.result, nil
}

func (p *pass) advance(next State) {
	logging.Debug("Reconcile", "%s: %s -> %s", p.tree.Path, p.result.State, next)
	p.result.State = next
	p.result.Trace = append(p.result.Trace, next)
}

func (p *pass) fail(err error) (*Result, error) {
	logging.Error("Reconcile", err, "Import of %s failed after %s", p.tree.Path, p.result.State)
	p.advance(StateFailed)
	return p.result, err
}

func (p *pass) resolveSuite() error {
	if err := CheckTree(p.tree); err != nil {
		return err
	}

	m, err := p.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}
	p.mapping = m

	switch {
	case m.ProjectID == "":
		m.ProjectID = p.opts.ProjectID
	case p.opts.ProjectID != "" && p.opts.ProjectID != m.ProjectID:
		logging.Warn("Reconcile", "Mapping belongs to project %s, ignoring configured project %s", m.ProjectID, p.opts.ProjectID)
	}
	if m.ProjectID == "" {
		return &ReconciliationError{Msg: "no project id in mapping or configuration"}
	}
	p.result.ProjectID = m.ProjectID

	if entry, ok := m.File(p.tree.Path); ok && entry.SuiteID != "" {
		p.entry = entry
		if p.tree.Kind == testdef.KindPlan && entry.SubStep != p.tree.SubPlan {
			logging.Warn("Reconcile", "%s was imported with subplan %q, now %q", p.tree.Path, entry.SubStep, p.tree.SubPlan)
			entry.SubStep = p.tree.SubPlan
			entry.StepID = p.tree.StepID
		}
		logging.Debug("Reconcile", "Reusing suite %s for %s", entry.SuiteID, p.tree.Path)
	} else {
		suite, err := p.remote.CreateSuite(p.ctx, m.ProjectID, SuiteName(p.tree))
		if err != nil {
			return fmt.Errorf("failed to create suite for %s: %w", p.tree.Path, err)
		}
		p.freshSuite = true
		p.entry = &mapping.FileEntry{
			Path:     p.tree.Path,
			FileType: mapping.FileKind(p.tree.Kind),
			SuiteID:  suite.ID,
			SuiteURL: suite.URL,
			StepID:   p.tree.StepID,
			SubStep:  p.tree.SubPlan,
		}
		m.UpsertFile(p.entry)
	}

	p.result.SuiteID = p.entry.SuiteID
	p.result.SuiteURL = p.entry.SuiteURL
	return nil
}

func (p *pass) resolveSection() error {
	if !p.freshSuite && p.entry.SectionID == "" {
		sections, err := p.remote.ListSections(p.ctx, p.mapping.ProjectID, p.entry.SuiteID)
		if err != nil {
			return fmt.Errorf("failed to list sections of suite %s: %w", p.entry.SuiteID, err)
		}
		if len(sections) > 1 {
			logging.Warn("Reconcile", "Suite %s has %d sections, using %s", p.entry.SuiteID, len(sections), sections[0].ID)
		}
		if len(sections) > 0 {
			p.entry.SectionID = sections[0].ID
		}
	}

	if p.freshSuite || p.entry.SectionID == "" {
		name := p.opts.SectionName
		if name == "" {
			name = SuiteName(p.tree)
		}
		section, err := p.remote.CreateSection(p.ctx, p.mapping.ProjectID, p.entry.SuiteID, name)
		if err != nil {
			return fmt.Errorf("failed to create section in suite %s: %w", p.entry.SuiteID, err)
		}
		p.entry.SectionID = section.ID
		if err := p.checkpoint(); err != nil {
			return err
		}
	}

	p.result.SectionID = p.entry.SectionID
	return nil
}

func (p *pass) diff() error {
	plan, err := Diff(p.entry, p.tree, p.opts.Scenarios, p.opts.TemplateID)
	if err != nil {
		return err
	}
	for _, key := range plan.Skipped {
		logging.Warn("Reconcile", "Skipping %s: no step has a description", key)
	}
	p.plan = plan
	p.result.Skipped = plan.Skipped
	logging.Debug("Reconcile", "%s: %d to create, %d to update, %d to delete",
		p.tree.Path, len(plan.Creates), len(plan.Updates), len(plan.Deletes))
	return nil
}

func (p *pass) apply() error {
	for _, op := range p.plan.Creates {
		rc, err := p.remote.CreateCase(p.ctx, p.entry.SectionID, op.Body)
		if err != nil {
			return fmt.Errorf("failed to create case for %s: %w", op.Case.Label(), err)
		}
		p.entry.UpsertLink(&mapping.ScenarioLink{
			TestCase:     op.Key.File,
			ScenarioName: op.Case.ScenarioName,
			Row:          op.Case.Row,
			TestCaseID:   rc.ID,
		})
		p.result.Created = append(p.result.Created, op.Key)
		logging.Debug("Reconcile", "Created case %s for %s", rc.ID, op.Case.Label())
		if err := p.checkpoint(); err != nil {
			return err
		}
	}

	for _, op := range p.plan.Updates {
		if _, err := p.remote.UpdateCase(p.ctx, op.Link.TestCaseID, op.Body); err != nil {
			return fmt.Errorf("failed to update case %s for %s: %w", op.Link.TestCaseID, op.Case.Label(), err)
		}
		p.result.Updated = append(p.result.Updated, op.Key)
	}

	if err := p.applyDeletes(); err != nil {
		logging.Warn("Reconcile", "Deleting cases can fail while runs are open; close them with `tmsync close-runs` and re-import")
		return err
	}

	if p.tree.Kind == testdef.KindPlan {
		p.syncPlanSteps()
	}
	return nil
}

func (p *pass) applyDeletes() error {
	if len(p.plan.Deletes) == 0 {
		return nil
	}

	if p.opts.PersistIncrementally {
		for _, link := range p.plan.Deletes {
			if err := p.remote.DeleteCases(p.ctx, []string{link.TestCaseID}); err != nil {
				return fmt.Errorf("failed to delete case %s: %w", link.TestCaseID, err)
			}
			p.removeLink(link)
			if err := p.checkpoint(); err != nil {
				return err
			}
		}
		return nil
	}

	ids := make([]string, 0, len(p.plan.Deletes))
	for _, link := range p.plan.Deletes {
		ids = append(ids, link.TestCaseID)
	}
	if err := p.remote.DeleteCases(p.ctx, ids); err != nil {
		return fmt.Errorf("failed to delete cases %s: %w", strings.Join(ids, ","), err)
	}
	for _, link := range p.plan.Deletes {
		p.removeLink(link)
	}
	return nil
}

func (p *pass) removeLink(link *mapping.ScenarioLink) {
	key := link.Key()
	p.entry.RemoveLink(key)
	p.result.Deleted = append(p.result.Deleted, key)
	logging.Debug("Reconcile", "Deleted case %s for %s", link.TestCaseID, key)
}

// syncPlanSteps mirrors the plan's links into one nested entry per
// referenced script, in local order.
func (p *pass) syncPlanSteps() {
	var steps []*mapping.FileEntry
	for _, st := range p.tree.PlanSteps {
		step := &mapping.FileEntry{
			Path:      st.Path,
			FileType:  mapping.FileKindScript,
			SuiteID:   p.entry.SuiteID,
			SuiteURL:  p.entry.SuiteURL,
			SectionID: p.entry.SectionID,
			StepID:    st.StepID,
		}
		for _, c := range st.Cases {
			if link, ok := p.entry.Link(KeyFor(p.tree, c)); ok {
				step.UpsertLink(link)
			}
		}
		steps = append(steps, step)
	}
	p.entry.PlanSteps = steps
}

func (p *pass) reorder() error {
	order := make([]string, 0, len(p.plan.Keys))
	for _, key := range p.plan.Keys {
		if link, ok := p.entry.Link(key); ok {
			order = append(order, link.TestCaseID)
		}
	}
	p.result.Order = order
	if len(order) == 0 {
		return nil
	}
	if err := p.remote.ReorderCases(p.ctx, p.entry.SectionID, order); err != nil {
		return fmt.Errorf("failed to reorder cases in section %s: %w", p.entry.SectionID, err)
	}
	return nil
}

func (p *pass) persist() error {
	if err := p.store.Save(p.mapping); err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

func (p *pass) checkpoint() error {
	if !p.opts.PersistIncrementally {
		return nil
	}
	if err := p.store.Save(p.mapping); err != nil {
		return fmt.Errorf("failed to save mapping checkpoint: %w", err)
	}
	return nil
}

// SuiteName is the remote suite (and default section) title for a tree: the
// file name without extension.
func SuiteName(tree *testdef.Tree) string {
	base := filepath.Base(tree.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
