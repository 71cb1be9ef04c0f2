// Package main is the entry point for the testusage application
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethpandaops/testusage/cmd"
	"github.com/joho/godotenv"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
)

func main() {
	envFile, args := parseArgs(os.Args[1:])

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	// Re-read LOG_LEVEL now that the env file is loaded
	cmd.InitLogger()

	os.Args = append(os.Args[:1], args...)
	cmd.Execute()
}

// parseArgs extracts the --env flag and returns the remaining arguments.
// Arguments after "--" belong to go test and are left alone.
func parseArgs(args []string) (envFile string, rest []string) {
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			return envFile, append(rest, args[i:]...)
		case arg == envFlag && i+1 < len(args):
			envFile = args[i+1]
			i++
		case strings.HasPrefix(arg, envFlagEqual):
			envFile = arg[len(envFlagEqual):]
		default:
			rest = append(rest, arg)
		}
	}

	return envFile, rest
}

// loadEnvFile loads the specified environment file
func loadEnvFile(file string) error {
	if file == "" {
		file = ".env"
	}

	// Try to load the specified env file
	if err := godotenv.Load(file); err != nil {
		// If it's the default .env file and it doesn't exist, that's okay
		if file == ".env" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
