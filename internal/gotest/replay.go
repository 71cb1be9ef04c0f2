package gotest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/ethpandaops/testusage/pkg/usage"
	"github.com/sirupsen/logrus"
)

// RootSuite is the name of the suite wrapping a whole stream.
const RootSuite = "go test"

const maxLineSize = 4 * 1024 * 1024

var (
	errTestFailed  = errors.New("test failed")
	errTestSkipped = errors.New("test skipped")
)

// PackageResult describes a package-level result seen in the stream.
type PackageResult struct {
	Package string
	Action  Action
	Elapsed time.Duration
}

// StreamProbe serves memory readings recovered from test output. The
// baseline is always zero, so the listener's deltas equal the reported values.
type StreamProbe struct {
	next listener.Snapshot
}

// Snapshot returns the pending reading and resets it to zero.
func (p *StreamProbe) Snapshot() listener.Snapshot {
	s := p.next
	p.next = listener.Snapshot{}

	return s
}

func (p *StreamProbe) set(memory, memoryPeak int64) {
	p.next = listener.Snapshot{Usage: memory, Peak: memoryPeak}
}

type testState struct {
	test      listener.Test
	memory    int64
	peak      int64
	hasMarker bool
	panicked  bool
	output    []string
}

// Replayer drives an observer from a `go test -json` stream. The stream maps
// onto a root suite containing one suite per package.
type Replayer struct {
	log      logrus.FieldLogger
	observer listener.Observer
	probe    *StreamProbe

	onPackage func(PackageResult)

	packages map[string]bool
	order    []string
	tests    map[listener.Test]*testState
}

// NewReplayer creates a replayer. The probe must be the one the observer's
// listener was built with so memory markers reach it; it may be nil when no
// listener in observer reads memory.
func NewReplayer(log logrus.FieldLogger, observer listener.Observer, probe *StreamProbe) *Replayer {
	if probe == nil {
		probe = &StreamProbe{}
	}

	return &Replayer{
		log:      log.WithField("component", "gotest_replayer"),
		observer: observer,
		probe:    probe,
		packages: make(map[string]bool),
		tests:    make(map[listener.Test]*testState),
	}
}

// OnPackage registers a callback invoked for every package result.
func (r *Replayer) OnPackage(fn func(PackageResult)) {
	r.onPackage = fn
}

// Replay reads the whole stream. The root suite is started before the first
// event and ended after the last one, closing any packages left open.
func (r *Replayer) Replay(ctx context.Context, stream io.Reader) error {
	root := listener.Suite{Name: RootSuite}

	r.observer.StartSuite(root)
	defer func() {
		r.closeOpenPackages()
		r.observer.EndSuite(root)
	}()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0

	for scanner.Scan() {
		line++

		if err := ctx.Err(); err != nil {
			return err
		}

		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var event TestEvent
		if err := json.Unmarshal(raw, &event); err != nil || event.Action == "" {
			r.log.WithField("line", line).Debug(strings.TrimRight(string(raw), "\n"))
			continue
		}

		r.Handle(&event)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading test stream: %w", err)
	}

	return nil
}

// Handle applies a single event.
func (r *Replayer) Handle(event *TestEvent) {
	if event.Package == "" {
		return
	}

	if event.Test == "" {
		r.handlePackage(event)
		return
	}

	r.startPackage(event.Package)

	test := listener.Test{
		Name:  event.Test,
		Class: event.Package,
	}

	switch event.Action {
	case ActionRun:
		r.tests[test] = &testState{test: test}
		r.observer.StartTest(test)
	case ActionOutput:
		r.handleOutput(test, event.Output)
	case ActionPass, ActionFail, ActionSkip:
		r.finishTest(test, event)
	}
}

func (r *Replayer) handlePackage(event *TestEvent) {
	switch {
	case event.Action == ActionStart:
		r.startPackage(event.Package)
	case event.finished():
		// A package that fails to build reports fail without ever starting.
		r.startPackage(event.Package)
		r.endPackage(event.Package)

		if r.onPackage != nil {
			r.onPackage(PackageResult{
				Package: event.Package,
				Action:  event.Action,
				Elapsed: event.ElapsedDuration(),
			})
		}
	}
}

func (r *Replayer) handleOutput(test listener.Test, output string) {
	state, ok := r.tests[test]
	if !ok {
		return
	}

	if memory, peak, ok := usage.ParseMarker(output); ok {
		state.memory = memory
		state.peak = peak
		state.hasMarker = true

		return
	}

	if strings.HasPrefix(output, "panic: ") {
		state.panicked = true
	}

	trimmed := strings.TrimSpace(output)
	if trimmed != "" && !strings.HasPrefix(trimmed, "=== ") && !strings.HasPrefix(trimmed, "--- ") {
		state.output = append(state.output, trimmed)
	}
}

func (r *Replayer) finishTest(test listener.Test, event *TestEvent) {
	state, ok := r.tests[test]
	if !ok {
		// Stream started mid-test; give the listener a baseline anyway.
		state = &testState{test: test}
		r.observer.StartTest(test)
	}

	delete(r.tests, test)

	elapsed := event.ElapsedDuration()

	switch event.Action {
	case ActionFail:
		err := errTestFailed
		if len(state.output) > 0 {
			err = fmt.Errorf("%w: %s", errTestFailed, strings.Join(state.output, "; "))
		}

		if state.panicked {
			r.observer.AddError(test, err, elapsed)
		} else {
			r.observer.AddFailure(test, err, elapsed)
		}
	case ActionSkip:
		r.observer.AddSkipped(test, errTestSkipped, elapsed)
	}

	if state.hasMarker {
		r.probe.set(state.memory, state.peak)
	}

	r.observer.EndTest(test, elapsed)
}

func (r *Replayer) startPackage(pkg string) {
	if r.packages[pkg] {
		return
	}

	if _, seen := r.packages[pkg]; !seen {
		r.order = append(r.order, pkg)
	}

	r.packages[pkg] = true
	r.observer.StartSuite(listener.Suite{Name: pkg})
}

func (r *Replayer) endPackage(pkg string) {
	if !r.packages[pkg] {
		return
	}

	r.packages[pkg] = false
	r.observer.EndSuite(listener.Suite{Name: pkg})
}

func (r *Replayer) closeOpenPackages() {
	for _, pkg := range r.order {
		if r.packages[pkg] {
			r.log.WithField("package", pkg).Debug("package never reported a result")
			r.endPackage(pkg)
		}
	}
}
