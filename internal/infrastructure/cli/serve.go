package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/watch"
	"github.com/felixgeelhaar/roadmapper/pkg/infrastructure/dashboard"
)

var (
	serveAddr     string
	serveNoReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roadmap board in the browser",
	Long: `Start the web board. Tasks are dragged between lanes, added per lane, and
the Suggest button asks the configured AI provider for the next task.

Endpoints:
  GET  /                              board page
  GET  /api/board                     lanes and tasks
  GET  /api/snapshot                  what the AI provider is shown
  GET  /api/activity                  recent board activity
  POST /api/lanes/{laneID}/tasks      add a task
  POST /api/tasks/{taskID}/move       move a task
  POST /api/suggest                   request a suggested task
  GET  /events                        Server-Sent Events stream
  GET  /ws                            WebSocket event stream

Changes to the ai section of the config file are picked up without a restart.`,
	Example: `  # Serve on the address from board.yaml
  roadmapper serve

  # Serve on another port with the OpenAI provider
  ROADMAPPER_AI_PROVIDER=openai OPENAI_API_KEY=sk-... roadmapper serve --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}

		addr := services.Config.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		server, err := dashboard.NewServer(addr, services.Board, services.Logger)
		if err != nil {
			return err
		}
		if skipRun("ROADMAPPER_SKIP_SERVE_START") {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !serveNoReload {
			go func() {
				err := watch.ReloadOnChange(ctx, services.ConfigPath, services.ReloadProvider, services.Logger)
				if err != nil && !errors.Is(err, context.Canceled) {
					services.Logger.Warn("config watcher stopped", "error", err)
				}
			}()
		}

		// Closed once in-flight requests and webhook deliveries have drained.
		shutdownDone := make(chan struct{})
		go func() {
			defer close(shutdownDone)
			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down board server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				services.Logger.Warn("dashboard shutdown", "error", err)
			}
			if services.Notifier != nil {
				services.Notifier.Wait()
			}
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Roadmap board on http://%s (AI provider: %s)\n", displayAddr(addr), services.Client.ProviderID())
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

		err = server.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-shutdownDone
			return fmt.Errorf("server error: %w", err)
		}
		<-shutdownDone
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr in the config)")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "Do not watch the config file for AI provider changes")
	RootCmd.AddCommand(serveCmd)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
