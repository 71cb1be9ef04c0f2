package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethpandaops/testusage/internal/interactive"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long:  `Asks for the report format and edges and writes them to the configuration file.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	current, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	next, err := interactive.NewWizard().Run(current)
	if err != nil {
		if errors.Is(err, interactive.ErrAborted) {
			fmt.Println("Init canceled.")
			return nil
		}
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		if !interactive.Confirm(fmt.Sprintf("Overwrite %s?", configPath)) {
			fmt.Println("Init canceled.")
			return nil
		}
	}

	if err := next.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Wrote %s\n", configPath)

	return nil
}
