package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethpandaops/testusage/internal/gotest"
	"github.com/spf13/cobra"
)

var (
	runTimeout time.Duration
	runDir     string
)

// runCmd runs go test and measures every test
var runCmd = &cobra.Command{
	Use:   "run [packages...] [-- go test flags...]",
	Short: "Run go test and report per-test time and memory usage",
	Long: `Run go test -json on the given packages (default ./...) and report the
time and memory usage of every test once all packages have finished.

Elapsed times come from go test itself. Memory deltas are reported for tests
that call usage.Track from github.com/ethpandaops/testusage/pkg/usage; other
tests report zero.

Everything after -- is passed to go test unchanged.

Example:
  testusage run
  testusage run ./internal/... --show-only-exceeded --time-edge 250
  testusage run ./pkg/... -- -run TestParse -count=1`,
	RunE: runTests,
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "Overall timeout")
	runCmd.Flags().StringVar(&runDir, "dir", "", "Directory to run go test in (default current directory)")

	rootCmd.AddCommand(runCmd)
}

func runTests(cmd *cobra.Command, args []string) error {
	packages, goFlags := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		packages, goFlags = args[:dash], args[dash:]
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Cancel the child on Ctrl+C; the deferred reports still run.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.replayer.OnPackage(s.printPackage)

	goArgs := gotest.Args(packages, goFlags)

	s.formatter.PrintPhase(fmt.Sprintf("go %v", goArgs))

	runErr := gotest.NewRunner(s.log, runDir).Run(ctx, s.replayer, goArgs)

	s.finish(runErr)

	if runErr != nil {
		return fmt.Errorf("running tests: %w", runErr)
	}

	return nil
}
