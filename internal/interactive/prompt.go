// Package interactive provides terminal prompts for building a configuration.
package interactive

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ethpandaops/testusage/internal/config"
	"github.com/ethpandaops/testusage/pkg/listener"
)

// ErrAborted is returned when the user interrupts the wizard.
var ErrAborted = errors.New("aborted")

// Answers collects the wizard responses.
type Answers struct {
	Format                   string `survey:"format"`
	ShowOnlyIfEdgeIsExceeded bool   `survey:"showOnlyIfEdgeIsExceeded"`
	ExecutionTimeEdge        string `survey:"executionTimeEdge"`
	MemoryUsageEdge          string `survey:"memoryUsageEdge"`
	MemoryPeakDifferenceEdge string `survey:"memoryPeakDifferenceEdge"`
}

// Asker runs a survey. It exists so tests can replace the terminal.
type Asker func(qs []*survey.Question, response interface{}, opts ...survey.AskOpt) error

// Wizard asks for every configuration value, using current as defaults.
type Wizard struct {
	ask Asker
}

// NewWizard creates a wizard bound to the terminal.
func NewWizard() *Wizard {
	return &Wizard{ask: survey.Ask}
}

// Run asks the questions and applies the answers to a copy of current.
func (w *Wizard) Run(current *config.AppConfig) (*config.AppConfig, error) {
	edges := listener.ParseConfig(discardLogger(), current.Values)

	questions := []*survey.Question{
		{
			Name: "format",
			Prompt: &survey.Select{
				Message: "Report format:",
				Options: []string{config.FormatText, config.FormatTable},
				Default: current.Format,
			},
		},
		{
			Name: "showOnlyIfEdgeIsExceeded",
			Prompt: &survey.Confirm{
				Message: "Only report tests that reach an edge?",
				Default: edges.ShowOnlyIfEdgeIsExceeded,
			},
		},
		{
			Name: "executionTimeEdge",
			Prompt: &survey.Input{
				Message: "Execution time edge (ms):",
				Default: strconv.FormatFloat(edges.ExecutionTimeEdge, 'f', -1, 64),
			},
			Validate: isFloat,
		},
		{
			Name: "memoryUsageEdge",
			Prompt: &survey.Input{
				Message: "Memory usage edge (bytes):",
				Default: strconv.FormatFloat(edges.MemoryUsageEdge, 'f', -1, 64),
			},
			Validate: isFloat,
		},
		{
			Name: "memoryPeakDifferenceEdge",
			Prompt: &survey.Input{
				Message: "Peak memory difference edge (bytes):",
				Default: strconv.FormatFloat(edges.MemoryPeakDifferenceEdge, 'f', -1, 64),
			},
			Validate: isFloat,
		},
	}

	var answers Answers
	if err := w.ask(questions, &answers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAborted, err)
	}

	return apply(current, &answers), nil
}

func apply(current *config.AppConfig, answers *Answers) *config.AppConfig {
	next := config.Default()
	next.Path = current.Path
	next.Values = current.Listener()
	next.Format = answers.Format

	// Inputs are validated, so parsing cannot fail here.
	timeEdge, _ := strconv.ParseFloat(answers.ExecutionTimeEdge, 64)
	memoryEdge, _ := strconv.ParseFloat(answers.MemoryUsageEdge, 64)
	peakEdge, _ := strconv.ParseFloat(answers.MemoryPeakDifferenceEdge, 64)

	next.Set(listener.KeyShowOnlyIfEdgeIsExceeded, answers.ShowOnlyIfEdgeIsExceeded)
	next.Set(listener.KeyExecutionTimeEdge, timeEdge)
	next.Set(listener.KeyMemoryUsageEdge, memoryEdge)
	next.Set(listener.KeyMemoryPeakDifferenceEdge, peakEdge)

	return next
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}
