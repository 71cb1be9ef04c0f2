package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		envFile string
		rest    []string
	}{
		{
			name: "no env flag",
			args: []string{"run", "./..."},
			rest: []string{"run", "./..."},
		},
		{
			name:    "separate value",
			args:    []string{"--env", "ci.env", "report", "out.json"},
			envFile: "ci.env",
			rest:    []string{"report", "out.json"},
		},
		{
			name:    "equals form",
			args:    []string{"run", "--env=ci.env"},
			envFile: "ci.env",
			rest:    []string{"run"},
		},
		{
			name: "go test flags are untouched",
			args: []string{"run", "--", "--env", "x"},
			rest: []string{"run", "--", "--env", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile, rest := parseArgs(tt.args)
			assert.Equal(t, tt.envFile, envFile)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestLoadEnvFile_MissingDefaultIsFine(t *testing.T) {
	chdir(t, t.TempDir())

	assert.NoError(t, loadEnvFile(""))
	assert.Error(t, loadEnvFile("missing.env"))
}

func TestLoadEnvFile_SetsEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Cleanup(func() { _ = os.Unsetenv("TESTUSAGE_FORMAT") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ci.env"), []byte("TESTUSAGE_FORMAT=table\n"), 0o600))
	require.NoError(t, loadEnvFile("ci.env"))

	assert.Equal(t, "table", os.Getenv("TESTUSAGE_FORMAT"))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
