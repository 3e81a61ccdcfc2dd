package cli

import (
	mcpadapter "github.com/abanremit/readycheck/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the readycheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the readycheck MCP server (stdio)",
		Long:  "Start the readycheck MCP server using stdio transport. This lets AI coding assistants run audit phases and query missing pages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				projectDir = "."
			}
			s := mcpadapter.NewReadycheckMCPServer(projectDir)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectDir, "path", "", "Project directory (defaults to current working directory)")

	return cmd
}
