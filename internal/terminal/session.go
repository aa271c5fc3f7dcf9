// Package terminal runs the prediction form as a sequence of prompts.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/form"
)

// Submitter sends a completed form for prediction.
type Submitter interface {
	Submit(ctx context.Context, state domain.State) form.Outcome
}

// Session prompts for every field, submits, and prints the outcome. After
// each round the user may go again with the previous answers as defaults.
type Session struct {
	fields    []domain.FieldDescriptor
	prompter  Prompter
	submitter Submitter
	out       io.Writer
}

// NewSession creates a Session writing its results to out.
func NewSession(fields []domain.FieldDescriptor, p Prompter, s Submitter, out io.Writer) *Session {
	return &Session{fields: fields, prompter: p, submitter: s, out: out}
}

// Run executes rounds until the user declines another one. The final state
// is returned so callers can inspect the last result.
func (s *Session) Run(ctx context.Context) (domain.State, error) {
	state := domain.NewState(s.fields)
	fmt.Fprintln(s.out, "Blood Demand Predictor")

	for {
		var err error
		state, err = s.collect(ctx, state)
		if err != nil {
			return state, err
		}

		outcome := s.submitter.Submit(ctx, state)
		state = outcome.State
		s.print(form.ViewFor(s.fields, outcome))

		again, err := s.prompter.Confirm(ctx, "Predict again?", false)
		if err != nil {
			return state, err
		}
		if !again {
			return state, nil
		}
	}
}

func (s *Session) collect(ctx context.Context, state domain.State) (domain.State, error) {
	for _, c := range form.BuildView(s.fields, state).Controls {
		value, err := s.prompter.Input(ctx, InputConfig{
			Message:     c.Label + ":",
			Default:     c.Value,
			Help:        c.Help,
			Suggestions: c.Suggestions,
			Required:    c.Required,
		})
		if err != nil {
			return state, fmt.Errorf("read %s: %w", c.Name, err)
		}
		state = state.With(c.Name, value)
	}
	return state, nil
}

func (s *Session) print(v form.View) {
	if v.Alert != "" {
		fmt.Fprintln(s.out, v.Alert)
		return
	}
	if v.HasResult() {
		fmt.Fprintf(s.out, "Predicted Demand: %s\n", v.ResultText)
	}
}
