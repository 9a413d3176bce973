// Package runs closes the test runs that are still open against a suite.
// Closing is never a side effect of an import; operators call it
// explicitly before an import that deletes cases.
package runs

import (
	"context"
	"errors"
	"fmt"

	"tmsync/internal/testrail"
	"tmsync/pkg/logging"
)

// ErrNoActiveRuns is returned when a suite has nothing left to close.
var ErrNoActiveRuns = errors.New("no active test runs")

// Remote is the subset of the remote client the manager needs.
type Remote interface {
	ListRuns(ctx context.Context, projectID, suiteID string, activeOnly bool) ([]testrail.RemoteRun, error)
	CloseRun(ctx context.Context, runID string) (testrail.RemoteRun, error)
}

// Manager drives the run lifecycle for one remote project.
type Manager struct {
	remote Remote
}

// NewManager creates a Manager.
func NewManager(remote Remote) *Manager {
	return &Manager{remote: remote}
}

// ActiveRuns lists the runs of a suite that are not completed.
func (m *Manager) ActiveRuns(ctx context.Context, projectID, suiteID string) ([]testrail.RemoteRun, error) {
	runs, err := m.remote.ListRuns(ctx, projectID, suiteID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs of suite %s: %w", suiteID, err)
	}

	// The filter is applied remotely; a server that ignores it must not
	// make us close a run twice.
	active := runs[:0]
	for _, r := range runs {
		if !r.IsCompleted {
			active = append(active, r)
		}
	}
	return active, nil
}

// CloseActiveRuns closes every active run of a suite and returns them in
// the order they were closed. It fails with ErrNoActiveRuns when there is
// nothing to close and stops at the first failing close.
func (m *Manager) CloseActiveRuns(ctx context.Context, projectID, suiteID string) ([]testrail.RemoteRun, error) {
	active, err := m.ActiveRuns(ctx, projectID, suiteID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("suite %s: %w", suiteID, ErrNoActiveRuns)
	}

	closed := make([]testrail.RemoteRun, 0, len(active))
	for _, r := range active {
		if err := ctx.Err(); err != nil {
			return closed, err
		}
		run, err := m.remote.CloseRun(ctx, r.ID)
		if err != nil {
			return closed, fmt.Errorf("failed to close run %s (%s): %w", r.ID, r.Name, err)
		}
		if run.ID == "" {
			run = r
		}
		logging.Info("Runs", "Closed run %s (%s)", run.ID, run.Name)
		closed = append(closed, run)
	}
	return closed, nil
}
