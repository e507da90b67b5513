package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/config"
	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

var notificationsOutput string

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show webhook endpoints and deliveries that failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		var failed []events.DeadLetter
		if path := cfg.Notifications.DeadLetterFile; path != "" {
			failed, err = webhook.NewDeadLetterStore(path).ReadAll()
			if err != nil {
				return fmt.Errorf("read dead letters: %w", err)
			}
		}
		out := cmd.OutOrStdout()

		if notificationsOutput == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"webhooks":     cfg.Notifications.Webhooks,
				"dead_letters": failed,
			})
		}

		if len(cfg.Notifications.Webhooks) == 0 {
			fmt.Fprintln(out, "No webhooks configured.")
		}
		for _, ep := range cfg.Notifications.Webhooks {
			state := "enabled"
			if ep.Disabled {
				state = "disabled"
			}
			format := ep.Format
			if format == "" {
				format = "json"
			}
			fmt.Fprintf(out, "%s  %s  [%s, %s]\n", ep.Name, ep.URL, format, state)
		}
		if cfg.Notifications.DeadLetterFile == "" {
			return nil
		}
		fmt.Fprintf(out, "\nFailed deliveries (%d):\n", len(failed))
		for _, dl := range failed {
			fmt.Fprintf(out, "  %s  %s  %s  after %d attempts: %s\n",
				dl.Timestamp.Format(time.RFC3339), dl.WebhookName, dl.EventType, dl.Attempts, dl.Error)
		}
		return nil
	},
}

func init() {
	notificationsCmd.Flags().StringVarP(&notificationsOutput, "output", "o", "text", "Output format (text, json)")
	RootCmd.AddCommand(notificationsCmd)
}
