package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var lanesOutput string

var lanesCmd = &cobra.Command{
	Use:   "lanes",
	Short: "List the lanes and tasks the board starts with",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		lanes := services.Board.Lanes()
		out := cmd.OutOrStdout()

		if lanesOutput == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(lanes)
		}

		for _, lane := range lanes {
			fmt.Fprintf(out, "%s (%s) [%d]\n", lane.Title, lane.ID, len(lane.Tasks))
			for _, task := range lane.Tasks {
				fmt.Fprintf(out, "  - %s  %s\n", task.ID, task.Content)
			}
		}
		return nil
	},
}

func init() {
	lanesCmd.Flags().StringVarP(&lanesOutput, "output", "o", "text", "Output format (text, json)")
	RootCmd.AddCommand(lanesCmd)
}
