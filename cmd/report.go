package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// reportCmd replays a saved go test -json stream
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Report time and memory usage from saved go test -json output",
	Long: `Read go test -json output from a file, or standard input when the file is
omitted or "-", and print the same report as the run command.

Example:
  go test -json ./... > results.json && testusage report results.json
  TESTUSAGE_EMIT=1 go test -json ./... | testusage report --format table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var stream io.Reader = os.Stdin

	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		stream = f
	}

	s.replayer.OnPackage(s.printPackage)

	if err := s.replayer.Replay(context.Background(), stream); err != nil {
		return fmt.Errorf("replaying test output: %w", err)
	}

	s.finish(nil)

	return nil
}
