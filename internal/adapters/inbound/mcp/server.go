package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewReadycheckMCPServer creates an MCP server exposing the audit as
// tools. The projectDir is the directory holding .readycheck.yaml and
// the frontend tree.
func NewReadycheckMCPServer(projectDir string) *server.MCPServer {
	s := server.NewMCPServer(
		"readycheck",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectDir)

	return s
}
