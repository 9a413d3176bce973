package cmd

import (
	"errors"

	"tmsync/internal/config"
	"tmsync/internal/reconcile"
	"tmsync/internal/runs"
	"tmsync/internal/testdef"
	"tmsync/internal/testrail"
)

// Process exit codes, one per error category.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitValidation     = 2
	ExitConfiguration  = 3
	ExitRemoteAPI      = 4
	ExitReconciliation = 5
	ExitNoActiveRuns   = 6
)

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	var (
		validationErr     *testdef.ValidationError
		configurationErr  *config.ConfigurationError
		remoteErr         *testrail.RemoteAPIError
		reconciliationErr *reconcile.ReconciliationError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, runs.ErrNoActiveRuns):
		return ExitNoActiveRuns
	case errors.As(err, &validationErr):
		return ExitValidation
	case errors.As(err, &configurationErr):
		return ExitConfiguration
	case errors.As(err, &reconciliationErr):
		return ExitReconciliation
	case errors.As(err, &remoteErr):
		return ExitRemoteAPI
	default:
		return ExitFailure
	}
}
