package runs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsync/internal/testrail"
)

type fakeRemote struct {
	runs     []testrail.RemoteRun
	listErr  error
	closeErr map[string]error
	closed   []string
	lastList struct {
		project, suite string
		activeOnly     bool
	}
}

func (f *fakeRemote) ListRuns(_ context.Context, projectID, suiteID string, activeOnly bool) ([]testrail.RemoteRun, error) {
	f.lastList.project, f.lastList.suite, f.lastList.activeOnly = projectID, suiteID, activeOnly
	return append([]testrail.RemoteRun(nil), f.runs...), f.listErr
}

func (f *fakeRemote) CloseRun(_ context.Context, runID string) (testrail.RemoteRun, error) {
	if err := f.closeErr[runID]; err != nil {
		return testrail.RemoteRun{}, err
	}
	f.closed = append(f.closed, runID)
	return testrail.RemoteRun{ID: runID, IsCompleted: true}, nil
}

func TestManager_CloseActiveRuns(t *testing.T) {
	remote := &fakeRemote{runs: []testrail.RemoteRun{
		{ID: "1", Name: "nightly"},
		{ID: "2", Name: "done", IsCompleted: true},
		{ID: "3", Name: "smoke"},
	}}

	closed, err := NewManager(remote).CloseActiveRuns(context.Background(), "7", "9")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, remote.closed)
	assert.Len(t, closed, 2)
	assert.Equal(t, "7", remote.lastList.project)
	assert.Equal(t, "9", remote.lastList.suite)
	assert.True(t, remote.lastList.activeOnly)
}

func TestManager_NoActiveRuns(t *testing.T) {
	remote := &fakeRemote{runs: []testrail.RemoteRun{{ID: "2", IsCompleted: true}}}

	closed, err := NewManager(remote).CloseActiveRuns(context.Background(), "7", "9")
	assert.ErrorIs(t, err, ErrNoActiveRuns)
	assert.Empty(t, closed)
	assert.Empty(t, remote.closed, "nothing may be mutated")
}

func TestManager_StopsAtFirstFailure(t *testing.T) {
	remote := &fakeRemote{
		runs:     []testrail.RemoteRun{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		closeErr: map[string]error{"2": errors.New("forbidden")},
	}

	closed, err := NewManager(remote).CloseActiveRuns(context.Background(), "7", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 2")
	assert.Equal(t, []string{"1"}, remote.closed)
	assert.Len(t, closed, 1)
}

func TestManager_ListFailure(t *testing.T) {
	apiErr := &testrail.RemoteAPIError{Op: "get_runs", StatusCode: 403}
	remote := &fakeRemote{listErr: apiErr}

	_, err := NewManager(remote).CloseActiveRuns(context.Background(), "7", "9")
	var target *testrail.RemoteAPIError
	assert.True(t, errors.As(err, &target))
	assert.Empty(t, remote.closed)
}
