package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tmsync/internal/app"
	"tmsync/internal/server"
	"tmsync/internal/testdef"
)

var (
	// configPath is an explicit config file layered over the defaults.
	configPath string
	// debug enables verbose logging across the application.
	debug bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tmsync",
	Short: "Keep a test management system in sync with local test definitions",
	Long: `tmsync mirrors local test scripts and plans into a remote test
management system. Every import creates, updates, deletes and reorders the
remote cases of one suite so they match the local scenarios, and records
the remote identities in a mapping file for the next run.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed imports, missing credentials)
	SilenceUsage: true,
}

// newApplication builds the operations behind every command. Tests replace it.
var newApplication = func(cfg *app.Config) (server.Operations, error) {
	return app.NewApplication(cfg)
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the command tree. The returned error carries enough type
// information for ExitCode; nothing below this point exits the process.
func Execute() error {
	rootCmd.SetVersionTemplate(`{{printf "tmsync version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func appConfig() *app.Config {
	return app.NewConfig(configPath, debug, rootCmd.Version)
}

func init() {
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCloseRunsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file layered over ~/.config/tmsync/config.yaml and ./.tmsync/config.yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &testdef.ValidationError{Field: "flags", Msg: "invalid usage", Err: err}
	})
}
