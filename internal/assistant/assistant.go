// Package assistant asks a hosted language model to turn free text into a
// structured workspace action. Callers fall back to local classification on
// any error.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
)

// ErrNotConfigured is returned when no model or credential is available.
var ErrNotConfigured = errors.New("assistant not configured")

// Model generates a completion for a system instruction and a user prompt.
type Model interface {
	Name() string
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Action is the kind of result the model chose.
type Action string

const (
	ActionCreateTransaction Action = "CREATE_TRANSACTION"
	ActionCreateEvent       Action = "CREATE_EVENT"
	ActionCreateTask        Action = "CREATE_TASK"
	ActionCreateGoal        Action = "CREATE_GOAL"
	ActionAnswer            Action = "ANSWER"
	ActionNote              Action = "NOTE"
)

// Actions lists every action the model may return.
var Actions = []Action{
	ActionCreateTransaction, ActionCreateEvent, ActionCreateTask,
	ActionCreateGoal, ActionAnswer, ActionNote,
}

func (a Action) valid() bool {
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

// Data is the payload of a Result. Which fields are set depends on the action.
type Data struct {
	Amount        *float64 `json:"amount,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Category      string   `json:"category,omitempty"`
	IsExpense     *bool    `json:"isExpense,omitempty"`
	Description   string   `json:"description,omitempty"`
	Title         string   `json:"title,omitempty"`
	StartTimeISO  string   `json:"startTimeISO,omitempty"`
	EndTimeISO    string   `json:"endTimeISO,omitempty"`
	Location      string   `json:"location,omitempty"`
	DueDateISO    string   `json:"dueDateISO,omitempty"`
	Status        string   `json:"status,omitempty"`
	TargetAmount  *float64 `json:"targetAmount,omitempty"`
	CurrentAmount *float64 `json:"currentAmount,omitempty"`
	Content       string   `json:"content,omitempty"`
	SuggestedTags []string `json:"suggestedTags,omitempty"`
}

// Result is the model's decision for one input.
type Result struct {
	Action   Action `json:"action"`
	Response string `json:"conversationalResponse,omitempty"`
	Data     Data   `json:"data"`
}

// Assistant wraps a Model with prompting and response decoding.
type Assistant struct {
	model  Model
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// WithClock sets the time reported to the model as the current date.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// New returns an Assistant on m. A nil m yields an assistant whose Parse
// always fails with ErrNotConfigured.
func New(m Model, opts ...Option) *Assistant {
	a := &Assistant{
		model:  m,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a model is configured.
func (a *Assistant) Enabled() bool {
	return a != nil && a.model != nil
}

// Parse asks the model to interpret text within mode.
func (a *Assistant) Parse(ctx context.Context, text string, mode model.Mode) (Result, error) {
	if !a.Enabled() {
		return Result{}, ErrNotConfigured
	}

	system := systemInstruction(mode, a.now())
	prompt := fmt.Sprintf("User Input: %q", text)

	start := time.Now()
	raw, err := a.model.Generate(ctx, system, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.model.Name(), err)
	}
	a.logger.Debug("assistant responded", "model", a.model.Name(), "elapsed", time.Since(start))

	res, err := decode(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.model.Name(), err)
	}
	return res, nil
}

// decode parses a model response, tolerating a surrounding markdown fence.
func decode(raw string) (Result, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return Result{}, errors.New("empty response")
	}

	var res Result
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return Result{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	if !res.Action.valid() {
		return Result{}, fmt.Errorf("unknown action %q", res.Action)
	}
	return res, nil
}
