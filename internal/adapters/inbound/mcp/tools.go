package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/abanremit/readycheck/internal/adapters/outbound/config"
	"github.com/abanremit/readycheck/internal/adapters/outbound/httpprobe"
	"github.com/abanremit/readycheck/internal/adapters/outbound/pgcatalog"
	"github.com/abanremit/readycheck/internal/application"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/abanremit/readycheck/internal/validators"
)

// registerTools registers the readycheck MCP tools on the given server.
func registerTools(s *server.MCPServer, projectDir string) {
	// 1. readycheck_run
	s.AddTool(
		mcplib.NewTool("readycheck_run",
			mcplib.WithDescription("Run the full production readiness audit and return the report as JSON"),
		),
		handleRun(projectDir),
	)

	// 2. readycheck_phase
	s.AddTool(
		mcplib.NewTool("readycheck_phase",
			mcplib.WithDescription("Run a single audit phase by name and return its result"),
			mcplib.WithString("phase",
				mcplib.Required(),
				mcplib.Description("Phase name, e.g. Page Completeness"),
			),
		),
		handlePhase(projectDir),
	)

	// 3. readycheck_missing_pages
	s.AddTool(
		mcplib.NewTool("readycheck_missing_pages",
			mcplib.WithDescription("Audit the frontend page tree and return missing routes per dashboard"),
		),
		handleMissingPages(projectDir),
	)
}

// newOrchestrator wires the configured phase set for the project.
func newOrchestrator(projectDir string) (*application.Orchestrator, *application.PageAudit, error) {
	cfg, err := configAdapter.New().Load(projectDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	prober := httpprobe.New(cfg.HTTPTimeout())
	pages := application.NewPageAudit(cfg.FrontendDir)

	orch := application.NewOrchestrator()
	orch.Register(validators.NewConnectivity(prober, cfg))
	orch.Register(validators.NewDatabaseCheck(func(ctx context.Context) (domain.ProbeStore, error) {
		return pgcatalog.OpenProbeStore(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout(), cfg.Database.QueryTimeout())
	}))
	orch.Register(validators.NewRealtime(cfg.BackendURL, cfg.HTTPTimeout()))
	orch.Register(validators.NewSecurity(prober, cfg.BackendURL))
	orch.Register(validators.NewHealth(prober, cfg.BackendURL))
	orch.Register(pages)
	orch.Register(validators.NewIntrospection(func(ctx context.Context) (domain.DatabaseInspector, error) {
		return pgcatalog.Open(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout(), cfg.Database.QueryTimeout())
	}, cfg.Database.Role))

	return orch, pages, nil
}

func handleRun(projectDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		orch, _, err := newOrchestrator(projectDir)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(orch.RunAll(ctx))
	}
}

func handlePhase(projectDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("phase")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		orch, _, err := newOrchestrator(projectDir)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		result, err := orch.RunPhase(ctx, name)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func handleMissingPages(projectDir string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := configAdapter.New().Load(projectDir)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		audit := application.NewPageAudit(cfg.FrontendDir)
		return jsonResult(map[string]application.CatalogAudit{
			"user":  audit.AuditUserDashboard(),
			"agent": audit.AuditAgentDashboard(),
			"admin": audit.AuditAdminDashboard(),
		})
	}
}

// jsonResult returns a result whose content is indented JSON.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error result with the given message.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
