package cmd

import (
	"github.com/spf13/cobra"

	"tmsync/internal/app"
	"tmsync/internal/report"
)

func newCloseRunsCmd() *cobra.Command {
	flags := &targetFlags{}
	cmd := &cobra.Command{
		Use:   "close-runs",
		Short: "Close the active test runs of an imported file's suite",
		Long: `Closes every test run that is still active on the suite a script or
plan was imported into. The file must have been imported before. Finding
no active run is an error, so scripts notice when nothing was closed.`,
		Example: `  tmsync close-runs --script tests/login.yaml
  tmsync close-runs --plan plans/release.yaml --subplan nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCloseRuns(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runCloseRuns(cmd *cobra.Command, flags *targetFlags) error {
	opts := app.CloseRunsOptions{Target: flags.target()}
	if err := opts.Validate(); err != nil {
		return err
	}

	application, err := newApplication(appConfig())
	if err != nil {
		return err
	}

	res, err := application.CloseRuns(cmd.Context(), opts)
	if err != nil {
		return err
	}

	report.NewConsoleReporter(cmd.OutOrStdout(), 0).CloseRuns(res)
	return nil
}
