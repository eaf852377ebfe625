package cli

import (
	"github.com/spf13/cobra"

	"github.com/Trucker2827/sb1-wf5mkd/internal/mcpserver"
)

// NewMCPCmd serves the recorder's MCP tools over stdio.
func NewMCPCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve recorder controls over MCP (stdio)",
		Long:  "Expose start/stop recording, webcam toggle, export, and session\nhistory as MCP tools so an agent can drive the recorder.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer deps.Ctrl.Close()
			return mcpserver.New(deps.Ctrl).ServeStdio()
		},
	}
}
