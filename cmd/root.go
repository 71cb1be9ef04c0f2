// Package cmd contains CLI command definitions
package cmd

import (
	"fmt"
	"os"

	"github.com/ethpandaops/testusage/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	// Persistent flags
	configPath       string
	verbose          bool
	reportFormat     string
	showOnlyExceeded bool
	timeEdge         float64
	memoryEdge       float64
	peakEdge         float64
	noColor          bool

	rootCmd = &cobra.Command{
		Use:   "testusage",
		Short: "testusage - per-test time and memory usage for go test",
		Long: `testusage records the wall-clock duration and memory usage of every Go test
and prints a numbered report once the whole run has finished.

Edges (thresholds) can be configured so only tests that reach one of them are
reported. Configuration is read from .testusage.yaml, TESTUSAGE_* environment
variables (a .env file is loaded if present) and command line flags, in that order.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	InitLogger()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigFile, "Configuration file")
	flags.BoolVar(&verbose, "verbose", false, "Verbose output")
	flags.StringVar(&reportFormat, "format", "", "Report format (text, table)")
	flags.BoolVar(&showOnlyExceeded, "show-only-exceeded", false, "Only report tests that reach an edge")
	flags.Float64Var(&timeEdge, "time-edge", 0, "Execution time edge in milliseconds (default 100)")
	flags.Float64Var(&memoryEdge, "memory-edge", 0, "Memory usage edge in bytes (default 1024)")
	flags.Float64Var(&peakEdge, "peak-edge", 0, "Peak memory difference edge in bytes (default 1024)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// InitLogger initializes the shared logger from LOG_LEVEL.
func InitLogger() {
	Logger = logrus.New()

	// Set log level from environment variable
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // Default to info
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use Logger here since it might not be set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}
