package cmd

import (
	"github.com/spf13/cobra"

	"tmsync/internal/app"
	"tmsync/internal/report"
)

type importFlags struct {
	targetFlags
	scenarios    string
	copySuiteURL bool
}

func newImportCmd() *cobra.Command {
	flags := &importFlags{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Synchronise one script or plan with its remote suite",
		Long: `Imports a local script (--script) or one subplan of a plan
(--plan with --subplan) into the remote test management system.

The first import of a file creates a suite and a section for it. Later
imports update every known case, create new ones, delete cases whose
scenario disappeared locally and reorder the section to follow the local
scenario order. Deleting cases can fail while test runs are open; close
them first with 'tmsync close-runs'.`,
		Example: `  tmsync import --script tests/login.yaml
  tmsync import --script tests/login.yaml --scenario "Login works,Logout works"
  tmsync import --plan plans/release.yaml --subplan nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.scenarios, "scenario", "", "Comma separated scenario names to import (script only)")
	cmd.Flags().BoolVar(&flags.copySuiteURL, "copy-suite-url", false, "Copy the suite URL to the clipboard")
	return cmd
}

func runImport(cmd *cobra.Command, flags *importFlags) error {
	opts := app.ImportOptions{
		Target:       flags.target(),
		Scenarios:    app.SplitScenarios(flags.scenarios),
		CopySuiteURL: flags.copySuiteURL,
	}
	// Bad flag combinations fail before any configuration is read.
	if err := opts.Validate(); err != nil {
		return err
	}

	application, err := newApplication(appConfig())
	if err != nil {
		return err
	}

	res, err := application.Import(cmd.Context(), opts)
	if err != nil {
		return err
	}

	report.NewConsoleReporter(cmd.OutOrStdout(), 0).Import(res)
	return nil
}
