package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the engine as an MCP Server so agents can read the stack and navigate it as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.ServeMCP(ctx, runOptions(cmd), transport, addr); err != nil {
			slog.Error("MCP Server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "", "Address to listen on (only for SSE, defaults to http.addr)")
}
