// Package usage wires the time and memory listener into `go test`.
//
// Call Main from TestMain and Track at the top of every test to be measured:
//
//	func TestMain(m *testing.M) {
//		os.Exit(usage.Main(m))
//	}
//
//	func TestSomething(t *testing.T) {
//		usage.Track(t)
//		...
//	}
package usage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethpandaops/testusage/internal/config"
	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/sirupsen/logrus"
)

var (
	errTestFailed  = errors.New("test failed")
	errTestSkipped = errors.New("test skipped")
)

// recordingProbe remembers the last snapshot handed to the listener.
type recordingProbe struct {
	probe listener.Probe
	last  listener.Snapshot
}

func (p *recordingProbe) Snapshot() listener.Snapshot {
	p.last = p.probe.Snapshot()
	return p.last
}

// Tracker feeds Go tests into a TimeAndMemory listener. Calls are serialised,
// so parallel tests are safe but their memory deltas overlap.
type Tracker struct {
	mu       sync.Mutex
	log      logrus.FieldLogger
	listener *listener.TimeAndMemory
	observer listener.Observer
	extra    []listener.Observer
	probe    *recordingProbe
	emit     bool
	now      func() time.Time
}

// NewTracker creates a tracker around a new listener. A nil probe selects the
// runtime probe.
func NewTracker(
	log logrus.FieldLogger,
	configuration map[string]any,
	probe listener.Probe,
	opts ...listener.Option,
) *Tracker {
	if probe == nil {
		probe = listener.NewRuntimeProbe()
	}

	rp := &recordingProbe{probe: probe}
	opts = append(opts, listener.WithProbe(rp))
	l := listener.New(log, configuration, opts...)

	return &Tracker{
		log:      log.WithField("component", "usage_tracker"),
		listener: l,
		observer: l,
		probe:    rp,
		emit:     os.Getenv(EnvEmit) == "1",
		now:      time.Now,
	}
}

// Observe adds an observer that receives the same callbacks as the listener.
func (t *Tracker) Observe(o listener.Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.extra = append(t.extra, o)
	t.observer = listener.Multi(append([]listener.Observer{t.listener}, t.extra...)...)
}

// Listener returns the underlying listener.
func (t *Tracker) Listener() *listener.TimeAndMemory {
	return t.listener
}

// Track measures tb from now until its cleanup runs.
func (t *Tracker) Track(tb testing.TB) {
	tb.Helper()

	t.track(tb, callerPackage(2))
}

func (t *Tracker) track(tb testing.TB, class string) {
	test := listener.Test{
		Name:  tb.Name(),
		Class: class,
	}

	t.mu.Lock()
	t.observer.StartTest(test)
	start := t.probe.last
	t.mu.Unlock()

	began := t.now()

	tb.Cleanup(func() {
		elapsed := t.now().Sub(began)

		t.mu.Lock()
		defer t.mu.Unlock()

		switch {
		case tb.Skipped():
			t.observer.AddSkipped(test, errTestSkipped, elapsed)
		case tb.Failed():
			t.observer.AddFailure(test, errTestFailed, elapsed)
		}

		t.observer.EndTest(test, elapsed)

		if t.emit {
			end := t.probe.last
			tb.Log(FormatMarker(end.Usage-start.Usage, end.Peak-start.Peak))
		}
	})
}

// Run wraps run in a suite. The listener reports when the outermost suite
// ends.
func (t *Tracker) Run(name string, run func() int) int {
	suite := listener.Suite{Name: name}

	t.mu.Lock()
	t.observer.StartSuite(suite)
	t.mu.Unlock()

	code := run()

	t.mu.Lock()
	t.observer.EndSuite(suite)
	t.mu.Unlock()

	return code
}

var (
	defaultOnce    sync.Once
	defaultTracker *Tracker
)

// Default returns the process-wide tracker, configured from the config file
// and environment on first use. opts only take effect on that first call.
func Default(opts ...listener.Option) *Tracker {
	defaultOnce.Do(func() {
		log := logrus.StandardLogger()

		cfg, err := config.Load(config.DefaultConfigFile)
		if err != nil {
			log.WithError(err).Warn("failed to load testusage configuration, using defaults")

			cfg = config.Default()
		}

		defaultTracker = NewTracker(log, cfg.Listener(), nil, opts...)
	})

	return defaultTracker
}

// Main runs the tests of m inside a suite on the default tracker and returns
// the exit code for os.Exit. opts customise the default tracker's listener,
// e.g. listener.WithReporter.
func Main(m *testing.M, opts ...listener.Option) int {
	return Default(opts...).Run(filepath.Base(os.Args[0]), m.Run)
}

// Track measures tb on the default tracker.
func Track(tb testing.TB) {
	tb.Helper()

	Default().track(tb, callerPackage(2))
}

// callerPackage returns the import path of the package skip frames up.
func callerPackage(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	return packageOf(fn.Name())
}

// packageOf strips the function part of a fully qualified function name,
// e.g. "example.com/a/b.TestX.func1" becomes "example.com/a/b".
func packageOf(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	if dot := strings.Index(funcName[slash+1:], "."); dot >= 0 {
		return funcName[:slash+1+dot]
	}

	return funcName
}
