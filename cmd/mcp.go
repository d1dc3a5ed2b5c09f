package cmd

import (
	"log"

	"github.com/docnav/docnav/internal/config"
	"github.com/docnav/docnav/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Runs an MCP server that exposes documentation scanning, search and
navigation tools over stdio. Intended to be launched by an MCP client;
requests are proxied to the background daemon, which is spawned on demand.`,
	Run: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	srv, err := mcp.NewServer(config.SocketPath())
	if err != nil {
		log.Fatalf("failed to start MCP server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
