package terminal

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	surveyterm "github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("prompt interrupted")

// InputConfig configures a single text prompt.
type InputConfig struct {
	Message     string
	Default     string
	Help        string
	Suggestions []string
	Required    bool
}

// Prompter asks the user for values. It abstracts survey so sessions can be
// tested without a terminal.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// SurveyPrompter implements Prompter on an interactive terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a prompter on the process terminal.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (p *SurveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	if len(cfg.Suggestions) > 0 {
		prompt.Suggest = suggester(cfg.Suggestions)
	}

	opts := append([]survey.AskOpt{}, p.opts...)
	if cfg.Required {
		opts = append(opts, survey.WithValidator(required))
	}

	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translate(err)
	}
	return strings.TrimSpace(out), nil
}

func (p *SurveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out, p.opts...); err != nil {
		return false, translate(err)
	}
	return out, nil
}

// required rejects empty and whitespace-only answers.
func required(val interface{}) error {
	s, _ := val.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

func suggester(options []string) func(string) []string {
	return func(toComplete string) []string {
		prefix := strings.ToLower(strings.TrimSpace(toComplete))
		var out []string
		for _, o := range options {
			if strings.HasPrefix(strings.ToLower(o), prefix) {
				out = append(out, o)
			}
		}
		return out
	}
}

func translate(err error) error {
	if errors.Is(err, surveyterm.InterruptErr) {
		return ErrInterrupted
	}
	return err
}
