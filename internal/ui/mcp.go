package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/blockweek/internal/mcpserver"
)

func (a *App) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the week as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin and stdout.

Assistants connected to it can list and create tasks, place, move and
delete blocks, manage alternatives and read the week report. Every change
goes through the same rules and storage as the other commands.

Example client entry:
  {"command": "blockweek", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureEngine(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("mcp server starting", "version", Version)
			return mcpserver.Serve(mcpserver.NewServer(a.engine, Version))
		},
	}
}
