package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/roadmapper/pkg/application"
)

var (
	suggestCurrent string
	suggestOutput  string
	suggestPrompt  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the AI provider for the next roadmap task",
	Long: `Send the board to the configured AI provider and print the task it
suggests together with the lane it was placed in.`,
	Example: `  roadmapper suggest
  roadmapper suggest --current "Database Schema Design"
  roadmapper suggest --prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if suggestPrompt {
			fmt.Fprint(out, application.BuildSuggestionPrompt(services.Board.Snapshot(suggestCurrent)))
			return nil
		}

		res, err := services.Board.Suggest(cmd.Context(), suggestCurrent)
		if err != nil {
			return err
		}

		if suggestOutput == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintf(out, "Suggested task: %s\n", res.Task.Content)
		fmt.Fprintf(out, "Lane:           %s (%s)\n", res.Lane.Title, res.Lane.ID)
		fmt.Fprintf(out, "Task ID:        %s\n", res.Task.ID)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVar(&suggestCurrent, "current", "", "Task to use as context for the suggestion")
	suggestCmd.Flags().StringVarP(&suggestOutput, "output", "o", "text", "Output format (text, json)")
	suggestCmd.Flags().BoolVar(&suggestPrompt, "prompt", false, "Print the prompt instead of calling the provider")
	RootCmd.AddCommand(suggestCmd)
}
