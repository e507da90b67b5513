package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/roadmapper/pkg/ai"
)

var (
	configForce    bool
	configProvider string
	configModel    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the board configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a board.yaml with the default lanes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return NewCLIError(
				fmt.Sprintf("%s already exists", configPath),
				"Use --force to overwrite it",
				nil,
			)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		cfg := config.Default()
		if configProvider != "" {
			if _, err := infraai.NewProvider(configProvider, configModel); err != nil {
				return NewCLIError(err.Error(), fmt.Sprintf("Supported providers: %v", infraai.Providers()), err)
			}
			cfg.AI.Provider = configProvider
			cfg.AI.Model = configModel
		}

		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d lanes, AI provider %s)\n", configPath, len(cfg.Lanes), cfg.AI.Provider)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configInitCmd.Flags().StringVar(&configProvider, "provider", "", "AI provider to configure")
	configInitCmd.Flags().StringVar(&configModel, "model", "", "AI model to configure")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	RootCmd.AddCommand(configCmd)
}
