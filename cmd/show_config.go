package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current configuration",
	Long:  `Shows the effective configuration from the config file, environment variables, .env file and flags.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}

		fmt.Println(cfg.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
