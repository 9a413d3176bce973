package app

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"tmsync/internal/config"
	"tmsync/internal/reconcile"
	"tmsync/internal/runs"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
	"tmsync/pkg/logging"
)

var writeClipboard = clipboard.WriteAll

// ImportResult is what an import reports back to its caller.
type ImportResult struct {
	Path      string
	Kind      testdef.Kind
	Result    *reconcile.Result
	URLCopied bool
}

// CloseRunsResult lists the runs closed for one file.
type CloseRunsResult struct {
	Path    string
	SuiteID string
	Closed  []testrail.RemoteRun
}

// Import parses the local file and reconciles it with the remote suite.
func (a *Application) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tree, err := a.services.Parser.Parse(ctx, opts.ParseRequest())
	if err != nil {
		return nil, err
	}

	release, err := a.services.Store.Lock()
	if err != nil {
		return nil, err
	}
	defer release()

	settings := a.config.Settings
	if err := a.checkProject(); err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(a.services.Remote, a.services.Store, reconcile.Options{
		ProjectID:            settings.Project.ID,
		TemplateID:           settings.TestRail.TemplateID,
		SectionName:          settings.Sync.SectionName,
		Scenarios:            opts.Scenarios,
		PersistIncrementally: settings.Sync.PersistIncrementally,
	})

	res, err := engine.Import(ctx, tree)
	if err != nil {
		return nil, err
	}

	out := &ImportResult{Path: tree.Path, Kind: tree.Kind, Result: res}
	if opts.CopySuiteURL && res.SuiteURL != "" {
		if err := writeClipboard(res.SuiteURL); err != nil {
			logging.Warn("App", "Could not copy suite URL to clipboard: %v", err)
		} else {
			out.URLCopied = true
		}
	}
	return out, nil
}

// checkProject fails early when neither the mapping nor the configuration
// names the remote project.
func (a *Application) checkProject() error {
	if a.config.Settings.Project.ID != "" {
		return nil
	}
	m, err := a.services.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}
	if m.ProjectID == "" {
		return &config.ConfigurationError{Missing: []string{"project.id"}}
	}
	return nil
}

// CloseRuns closes every active run of the suite a file was imported into.
func (a *Application) CloseRuns(ctx context.Context, opts CloseRunsOptions) (*CloseRunsResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m, err := a.services.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping: %w", err)
	}

	path := opts.Path()
	entry, ok := m.File(path)
	if !ok || entry.SuiteID == "" {
		return nil, testdef.Invalid("mapping", "%s has not been imported yet", path)
	}
	if opts.PlanPath != "" && entry.SubStep != "" && entry.SubStep != opts.SubPlan {
		logging.Warn("App", "%s was imported with subplan %q; closing runs of its suite anyway", path, entry.SubStep)
	}

	projectID := m.ProjectID
	if projectID == "" {
		projectID = a.config.Settings.Project.ID
	}
	if projectID == "" {
		return nil, &config.ConfigurationError{Missing: []string{"project.id"}}
	}

	closed, err := runs.NewManager(a.services.Remote).CloseActiveRuns(ctx, projectID, entry.SuiteID)
	if err != nil {
		return nil, err
	}
	return &CloseRunsResult{Path: path, SuiteID: entry.SuiteID, Closed: closed}, nil
}
