package gotest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/ethpandaops/testusage/pkg/usage"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnv = "TESTUSAGE_WANT_HELPER_PROCESS"

// TestHelperProcess stands in for `go test -json`. It is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) == "" {
		return
	}

	defer os.Exit(0)

	if os.Getenv(usage.EnvEmit) != "1" {
		fmt.Fprintln(os.Stderr, "marker emission not enabled")
		os.Exit(3)
	}

	fmt.Println(`{"Action":"start","Package":"example.com/a"}`)
	fmt.Println(`{"Action":"run","Package":"example.com/a","Test":"TestOne"}`)
	fmt.Println(`{"Action":"output","Package":"example.com/a","Test":"TestOne","Output":"testusage: memory=2048 peak-memory=0\n"}`)
	fmt.Println(`{"Action":"pass","Package":"example.com/a","Test":"TestOne","Elapsed":0.002}`)

	if os.Getenv(helperEnv) == "fail" {
		fmt.Println(`{"Action":"fail","Package":"example.com/a","Elapsed":0.01}`)
		fmt.Fprintln(os.Stderr, "FAIL")
		os.Exit(1)
	}

	fmt.Println(`{"Action":"pass","Package":"example.com/a","Elapsed":0.01}`)
}

func newHelperRunner(t *testing.T, mode string) *Runner {
	t.Helper()

	t.Setenv(helperEnv, mode)

	log, _ := logtest.NewNullLogger()
	r := NewRunner(log, "")
	r.goBin = os.Args[0]
	r.command = func(ctx context.Context, name string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, name, "-test.run=^TestHelperProcess$")
	}

	return r
}

func TestRunner_Run(t *testing.T) {
	r := newHelperRunner(t, "pass")

	log, _ := logtest.NewNullLogger()
	probe := &StreamProbe{}
	reporter := &countingReporter{}
	l := listener.New(log, nil, listener.WithProbe(probe), listener.WithReporter(reporter))

	err := r.Run(context.Background(), NewReplayer(log, l, probe), Args(nil, nil))
	require.NoError(t, err)

	require.Equal(t, 1, reporter.calls)
	require.Len(t, reporter.measurements, 1)
	assert.Equal(t, int64(2048), reporter.measurements[0].Memory().Bytes())
}

func TestRunner_RunFailure(t *testing.T) {
	r := newHelperRunner(t, "fail")

	log, _ := logtest.NewNullLogger()
	probe := &StreamProbe{}
	l := listener.New(log, nil, listener.WithProbe(probe), listener.WithReporter(&countingReporter{}))

	err := r.Run(context.Background(), NewReplayer(log, l, probe), Args(nil, nil))
	assert.ErrorIs(t, err, ErrTestsFailed)
	assert.Len(t, l.Measurements(), 1)
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{"test", "-json", "./..."}, Args(nil, nil))
	assert.Equal(t,
		[]string{"test", "-json", "-run", "TestX", "-count=1", "./pkg/a", "./pkg/b"},
		Args([]string{"./pkg/a", "./pkg/b"}, []string{"-run", "TestX", "-count=1"}),
	)
}
