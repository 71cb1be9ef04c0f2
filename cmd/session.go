package cmd

import (
	"fmt"
	"os"

	"github.com/ethpandaops/testusage/internal/config"
	"github.com/ethpandaops/testusage/internal/gotest"
	"github.com/ethpandaops/testusage/internal/metrics"
	"github.com/ethpandaops/testusage/internal/output"
	"github.com/ethpandaops/testusage/internal/table"
	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// session wires the listener, metrics collector and output for one run.
type session struct {
	log       logrus.FieldLogger
	cfg       *config.AppConfig
	listener  *listener.TimeAndMemory
	collector metrics.Collector
	replayer  *gotest.Replayer
	formatter output.Formatter
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Format = reportFormat
	}

	if flags.Changed("show-only-exceeded") {
		cfg.Set(listener.KeyShowOnlyIfEdgeIsExceeded, showOnlyExceeded)
	}

	if flags.Changed("time-edge") {
		cfg.Set(listener.KeyExecutionTimeEdge, timeEdge)
	}

	if flags.Changed("memory-edge") {
		cfg.Set(listener.KeyMemoryUsageEdge, memoryEdge)
	}

	if flags.Changed("peak-edge") {
		cfg.Set(listener.KeyMemoryPeakDifferenceEdge, peakEdge)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	log := commandLogger(verbose)

	if noColor {
		color.NoColor = true
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var (
		renderer  = table.NewRenderer(log)
		probe     = &gotest.StreamProbe{}
		collector = metrics.NewCollector(log)
		edges     = listener.ParseConfig(log, cfg.Listener())
	)

	var reporter listener.Reporter = listener.NewTextReporter(os.Stdout)
	if cfg.Format == config.FormatTable {
		reporter = table.NewReporter(os.Stdout, table.NewMeasurementsFormatter(log, renderer, edges))
	}

	l := listener.New(log, cfg.Listener(),
		listener.WithProbe(probe),
		listener.WithReporter(reporter),
	)

	log.WithFields(logrus.Fields{
		"source": cfg.Path,
		"format": cfg.Format,
		"edges":  l.Config(),
	}).Debug("configuration loaded")

	return &session{
		log:       log,
		cfg:       cfg,
		listener:  l,
		collector: collector,
		replayer:  gotest.NewReplayer(log, listener.Multi(l, collector), probe),
		formatter: output.NewFormatter(
			os.Stdout,
			collector,
			table.NewSummaryFormatter(log, renderer),
		),
	}, nil
}

// printPackage prints one line per package result, like go test does.
func (s *session) printPackage(result gotest.PackageResult) {
	switch result.Action {
	case gotest.ActionPass:
		s.formatter.PrintProgress(fmt.Sprintf("ok   %s", result.Package), result.Elapsed)
	case gotest.ActionSkip:
		s.formatter.PrintProgress(fmt.Sprintf("?    %s [no test files]", result.Package), 0)
	case gotest.ActionFail:
		s.formatter.PrintError(fmt.Sprintf("FAIL %s", result.Package), nil)
	}
}

// finish prints the run summary in table mode, then the overall verdict.
// runErr is the error of the go test process, if any.
func (s *session) finish(runErr error) {
	if s.cfg.Format == config.FormatTable {
		s.formatter.PrintSummary(len(s.listener.Measurements()))
	}

	summary := s.collector.GetSummary()

	if runErr != nil || summary.FailedTests+summary.ErroredTests > 0 {
		s.formatter.PrintError(fmt.Sprintf(
			"FAIL (%d failed, %d errored of %d tests)",
			summary.FailedTests,
			summary.ErroredTests,
			summary.TotalTests,
		), nil)

		return
	}

	s.formatter.PrintSuccess(fmt.Sprintf("PASS (%d tests)", summary.TotalTests))
}
