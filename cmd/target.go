package cmd

import (
	"github.com/spf13/cobra"

	"tmsync/internal/app"
)

// targetFlags are shared by every command that works on one local file.
type targetFlags struct {
	script  string
	plan    string
	subplan string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.script, "script", "", "Path of the script file")
	cmd.Flags().StringVar(&f.plan, "plan", "", "Path of the plan file")
	cmd.Flags().StringVar(&f.subplan, "subplan", "", "Subplan to use (required with --plan)")
}

func (f *targetFlags) target() app.Target {
	return app.Target{ScriptPath: f.script, PlanPath: f.plan, SubPlan: f.subplan}
}
