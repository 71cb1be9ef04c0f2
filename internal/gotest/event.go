// Package gotest replays `go test -json` event streams into a listener.
package gotest

import (
	"math"
	"time"
)

// Action is the test2json event action.
type Action string

const (
	ActionStart  Action = "start"
	ActionRun    Action = "run"
	ActionPause  Action = "pause"
	ActionCont   Action = "cont"
	ActionPass   Action = "pass"
	ActionBench  Action = "bench"
	ActionFail   Action = "fail"
	ActionOutput Action = "output"
	ActionSkip   Action = "skip"
)

// TestEvent is one line of `go test -json` output, as produced by
// cmd/test2json.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  Action    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"` // seconds
	Output  string    `json:"Output"`
}

// ElapsedDuration converts Elapsed to a duration.
func (e *TestEvent) ElapsedDuration() time.Duration {
	return time.Duration(math.Round(e.Elapsed * float64(time.Second)))
}

// finished reports whether the event ends a test or a package.
func (e *TestEvent) finished() bool {
	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		return true
	default:
		return false
	}
}
