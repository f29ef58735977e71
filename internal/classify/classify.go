// Package classify turns free-text input into a typed item draft using an
// ordered chain of keyword rules. The first rule that matches wins.
package classify

import (
	"strings"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
)

// Draft is the outcome of classification: the item content plus the variant
// payload. It has no identity yet.
type Draft struct {
	Content string
	Details model.Details
}

// Type reports the variant the draft will become.
func (d Draft) Type() model.Type {
	return model.Item{Details: d.Details}.Type()
}

// Item turns the draft into a storable item with empty tags.
func (d Draft) Item(id string, createdAt int64) model.Item {
	return model.Item{
		ID:        id,
		CreatedAt: createdAt,
		Content:   d.Content,
		Tags:      []string{},
		Details:   d.Details,
	}
}

// Rule pairs a predicate with a constructor. Apply receives the raw input and
// the current time and reports whether the rule produced a draft.
type Rule struct {
	Name  string
	Apply func(text string, now time.Time) (Draft, bool)
}

// Classifier applies its rules in order. The zero value has no rules and
// classifies everything as a note.
type Classifier struct {
	rules []Rule
	now   func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock sets the time source used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithRules replaces the default rule chain.
func WithRules(rules ...Rule) Option {
	return func(c *Classifier) { c.rules = rules }
}

// New returns a Classifier with the default chain: amount, task, event.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules: DefaultRules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultRules returns the built-in chain in priority order.
func DefaultRules() []Rule {
	return []Rule{AmountRule(), TaskRule(TaskKeywords), EventRule(EventKeywords)}
}

// Rules returns the names of the configured rules in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Classify never fails: input matching no rule becomes a note holding the
// original text.
func (c *Classifier) Classify(text string) Draft {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	for _, r := range c.rules {
		if d, ok := r.Apply(text, now); ok {
			return d
		}
	}
	return Draft{Content: text, Details: model.Note{}}
}

// normalize prepares text for keyword checks.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
