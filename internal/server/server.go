// Package server exposes tmsync operations as MCP tools over stdio, so an
// assistant or editor can trigger imports without shelling out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"tmsync/internal/app"
	"tmsync/pkg/logging"
)

// Operations is what the tools call into. *app.Application implements it.
type Operations interface {
	Import(ctx context.Context, opts app.ImportOptions) (*app.ImportResult, error)
	CloseRuns(ctx context.Context, opts app.CloseRunsOptions) (*app.CloseRunsResult, error)
}

// Server wraps an MCP server with the tmsync tools registered.
type Server struct {
	ops Operations
	mcp *mcpserver.MCPServer

	// Operations share one mapping file and run one at a time.
	mu sync.Mutex
}

// New creates a server and registers its tools.
func New(ops Operations, version string) *Server {
	s := &Server{
		ops: ops,
		mcp: mcpserver.NewMCPServer(
			"tmsync",
			version,
			mcpserver.WithToolCapabilities(false),
		),
	}

	s.mcp.AddTool(mcp.NewTool("import_tests",
		mcp.WithDescription("Synchronise a local script or plan with the remote test management system"),
		mcp.WithString("script",
			mcp.Description("Path of a script file; mutually exclusive with plan"),
		),
		mcp.WithString("plan",
			mcp.Description("Path of a plan file; requires subplan"),
		),
		mcp.WithString("subplan",
			mcp.Description("Subplan of the plan to import"),
		),
		mcp.WithString("scenarios",
			mcp.Description("Comma separated scenario names to restrict a script import to"),
		),
	), s.handleImport)

	s.mcp.AddTool(mcp.NewTool("close_test_runs",
		mcp.WithDescription("Close every active test run of the suite a file was imported into"),
		mcp.WithString("script",
			mcp.Description("Path of a script file; mutually exclusive with plan"),
		),
		mcp.WithString("plan",
			mcp.Description("Path of a plan file; requires subplan"),
		),
		mcp.WithString("subplan",
			mcp.Description("Subplan of the plan"),
		),
	), s.handleCloseRuns)

	return s
}

// Serve answers requests on in/out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info("Server", "Serving MCP tools on stdio")
	return mcpserver.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func stringArg(args map[string]interface{}, key string) string {
	if val, ok := args[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func target(args map[string]interface{}) app.Target {
	return app.Target{
		ScriptPath: stringArg(args, "script"),
		PlanPath:   stringArg(args, "plan"),
		SubPlan:    stringArg(args, "subplan"),
	}
}

func (s *Server) handleImport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	opts := app.ImportOptions{
		Target:    target(args),
		Scenarios: app.SplitScenarios(stringArg(args, "scenarios")),
	}

	s.mu.Lock()
	res, err := s.ops.Import(ctx, opts)
	s.mu.Unlock()
	if err != nil {
		logging.Error("Server", err, "import_tests failed")
		return mcp.NewToolResultError(fmt.Sprintf("Import failed: %v", err)), nil
	}

	r := res.Result
	return jsonResult(map[string]interface{}{
		"path":      res.Path,
		"kind":      res.Kind,
		"suiteId":   r.SuiteID,
		"suiteUrl":  r.SuiteURL,
		"sectionId": r.SectionID,
		"created":   len(r.Created),
		"updated":   len(r.Updated),
		"deleted":   len(r.Deleted),
		"skipped":   len(r.Skipped),
		"order":     r.Order,
	})
}

func (s *Server) handleCloseRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	res, err := s.ops.CloseRuns(ctx, app.CloseRunsOptions{Target: target(request.GetArguments())})
	s.mu.Unlock()
	if err != nil {
		logging.Error("Server", err, "close_test_runs failed")
		return mcp.NewToolResultError(fmt.Sprintf("Closing runs failed: %v", err)), nil
	}

	closed := make([]map[string]string, 0, len(res.Closed))
	for _, run := range res.Closed {
		closed = append(closed, map[string]string{"id": run.ID, "name": run.Name})
	}
	return jsonResult(map[string]interface{}{
		"path":    res.Path,
		"suiteId": res.SuiteID,
		"closed":  closed,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
