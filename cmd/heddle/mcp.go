package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/cli"
	"github.com/aretw0/heddle/pkg/adapters/mcp"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/aretw0/heddle/pkg/persistence/middleware"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the operator catalog, and with --workspaces the configured store, as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		withWorkspaces, _ := cmd.Flags().GetBool("workspaces")

		catalog := ops.Default()
		opts := []mcp.Option{mcp.WithLogger(logger)}
		if withWorkspaces {
			mgr, closeStore, err := newManager(cfg, []middleware.Middleware{middleware.ReadOnly()}, heddle.WithRegistry(catalog))
			if err != nil {
				return err
			}
			defer closeStore()
			opts = append(opts, mcp.WithSessions(mgr))
		}
		srv := mcp.NewServer(catalog, opts...)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("starting heddle MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			err := srv.ServeSSE(ctx, addr)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().Bool("workspaces", false, "Also expose stored workspaces")
}
