package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants generate matches, read them and apply to listings.

Example client entry:

{
  "mcpServers": {
    "internmatch": {
      "command": "/path/to/internmatch",
      "args": ["mcp"]
    }
  }
}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	server := mcp.New(engine, a.db, a.logger, version)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("mcp server starting")
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

