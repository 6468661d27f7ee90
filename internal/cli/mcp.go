package cli

import (
	"strings"

	"canopy/internal/mcptools"
	"canopy/internal/store"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the document tree over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := strings.TrimSpace(app.Dir)
			if dir == "" {
				d, err := store.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}
			ws := mcptools.Workspace{Store: store.Store{Dir: dir}}

			mcpServer := server.NewMCPServer(
				"canopy-mcp",
				"0.1.0",
				server.WithToolCapabilities(true),
			)
			mcptools.RegisterReadTools(mcpServer, ws)
			mcptools.RegisterWriteTools(mcpServer, ws)

			return server.ServeStdio(mcpServer)
		},
	}
}
