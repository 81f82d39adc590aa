package commands

import (
	"context"

	"ccdash/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the views as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func runMCP(ctx context.Context) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	server := mcp.NewServer(a.views, mcp.Options{
		Version: Version,
		Charts:  cfg.EnableMermaidCharts,
		Refresh: a.refresh,
	})
	return server.Start(ctx)
}
