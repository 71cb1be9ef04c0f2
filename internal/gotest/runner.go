package gotest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ethpandaops/testusage/pkg/usage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrTestsFailed is returned when `go test` exits with a non-zero status.
var ErrTestsFailed = errors.New("go test reported failures")

// Runner executes `go test -json` and replays its output.
type Runner struct {
	log     logrus.FieldLogger
	goBin   string
	dir     string
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner creates a runner using the go binary found on PATH.
func NewRunner(log logrus.FieldLogger, dir string) *Runner {
	return &Runner{
		log:     log.WithField("component", "gotest_runner"),
		goBin:   "go",
		dir:     dir,
		command: exec.CommandContext,
	}
}

// Args builds the `go test` argument list for the given packages and extra
// flags.
func Args(packages, flags []string) []string {
	if len(packages) == 0 {
		packages = []string{"./..."}
	}

	args := make([]string, 0, 2+len(flags)+len(packages))
	args = append(args, "test", "-json")
	args = append(args, flags...)
	args = append(args, packages...)

	return args
}

// Run executes go test with the given arguments (see Args), streaming stdout
// into the replayer and stderr into the log.
func (r *Runner) Run(ctx context.Context, replayer *Replayer, args []string) error {
	cmd := r.command(ctx, r.goBin, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), usage.EnvEmit+"=1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	r.log.WithField("args", args).Debug("starting go test")

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", r.goBin, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return replayer.Replay(gctx, stdout)
	})

	g.Go(func() error {
		return r.forward(stderr)
	})

	streamErr := g.Wait()

	// Drain whatever the replayer left unread so the child can exit.
	_, _ = io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()

	if streamErr != nil {
		return fmt.Errorf("processing go test output: %w", streamErr)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("%w: exit status %d", ErrTestsFailed, exitErr.ExitCode())
		}

		return fmt.Errorf("running go test: %w", waitErr)
	}

	return nil
}

func (r *Runner) forward(stderr io.Reader) error {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		r.log.Warn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading go test stderr: %w", err)
	}

	return nil
}
