package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can browse
recipes, manage bookmarks and ask the chef.

By default, the server communicates over stdio using JSON-RPC.
Use --http to serve streamable HTTP on an address instead.

Examples:
  # Stdio mode (default)
  delight mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  delight mcp serve --http localhost:8080

Client configuration:
  {
    "mcpServers": {
      "delight": {
        "command": "/path/to/delight",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().String("http", "", "serve HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Meals: mealService,
		Chat:  chatService,
	})
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
