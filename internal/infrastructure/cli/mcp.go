package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/roadmapper/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the board to MCP clients",
	Long: `Start an MCP server with the tools board_lanes, board_snapshot, add_task,
move_task and suggest_task. The board lives in this process only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport := strings.ToLower(mcpTransport)
		switch transport {
		case "stdio", "http", "ws", "websocket":
		default:
			return NewCLIError(fmt.Sprintf("unsupported transport %q", mcpTransport), "Use one of: stdio, http, ws", nil)
		}

		services, err := loadServices()
		if err != nil {
			return err
		}
		inframcp.Version = Version
		server, err := inframcp.NewServer(services.Board, services.Logger)
		if err != nil {
			return err
		}
		if skipRun("ROADMAPPER_SKIP_MCP_START") {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		switch transport {
		case "stdio":
			err = server.ServeStdio(ctx)
		case "http":
			err = server.ServeHTTP(ctx, mcpAddr)
		default:
			err = server.ServeWebSocket(ctx, mcpAddr)
		}
		if services.Notifier != nil {
			services.Notifier.Wait()
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "127.0.0.1:8090", "Address for http/ws transports")
	RootCmd.AddCommand(mcpCmd)
}
