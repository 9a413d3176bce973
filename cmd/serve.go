package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"tmsync/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve tmsync operations as MCP tools over stdio",
		Long: `Starts an MCP server on stdin/stdout exposing two tools:

  import_tests     same options as 'tmsync import'
  close_test_runs  same options as 'tmsync close-runs'

Failed operations are returned as tool errors; the server keeps running
until stdin is closed or the process is interrupted. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := newApplication(appConfig())
	if err != nil {
		return err
	}
	return server.New(application, rootCmd.Version).Serve(cmd.Context(), os.Stdin, os.Stdout)
}
