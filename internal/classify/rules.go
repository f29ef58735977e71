package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

const (
	DefaultCurrency = "XOF"
	DefaultCategory = "Général"
)

// TaskKeywords start a task when they prefix the input.
var TaskKeywords = []string{
	"faire", "acheter", "appeler", "envoyer", "rédiger", "finir",
	"checker", "todo", "penser à", "projet",
}

// EventKeywords mark an event when they appear anywhere in the input.
var EventKeywords = []string{
	"demain", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche",
	"à 10h", "à 14h", "réunion", "rdv", "rendez-vous",
}

// amountPattern matches a leading number followed by whitespace and the rest.
// Thousands may be grouped with a space ("12 500"), decimals use . or ,.
var amountPattern = regexp.MustCompile(`^((?:\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+|\d+)(?:[.,]\d+)?)\s+(.*)$`)

var groupSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// AmountRule emits an expense transaction for input like "5000 courses".
// Amount-led input is always recorded as an expense.
func AmountRule() Rule {
	return Rule{
		Name: "amount",
		Apply: func(text string, now time.Time) (Draft, bool) {
			m := amountPattern.FindStringSubmatch(strings.TrimSpace(text))
			if m == nil {
				return Draft{}, false
			}
			amount, ok := parseAmount(m[1])
			if !ok {
				return Draft{}, false
			}
			return Draft{
				Content: m[2],
				Details: model.Transaction{
					Amount:    amount,
					Currency:  DefaultCurrency,
					Category:  DefaultCategory,
					IsExpense: true,
					Date:      timecalc.Millis(now),
				},
			}, true
		},
	}
}

func parseAmount(s string) (float64, bool) {
	s = groupSeparators.Replace(s)
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// TaskRule emits a TODO task when the input starts with one of keywords.
func TaskRule(keywords []string) Rule {
	return Rule{
		Name: "task",
		Apply: func(text string, _ time.Time) (Draft, bool) {
			lower := normalize(text)
			for _, kw := range keywords {
				if strings.HasPrefix(lower, kw) {
					return Draft{
						Content: text,
						Details: model.Task{Status: model.StatusTodo},
					}, true
				}
			}
			return Draft{}, false
		},
	}
}

// EventRule emits a one-hour event starting tomorrow at the current
// wall-clock time when the input contains one of keywords.
func EventRule(keywords []string) Rule {
	return Rule{
		Name: "event",
		Apply: func(text string, now time.Time) (Draft, bool) {
			lower := normalize(text)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					start := timecalc.Millis(timecalc.SameTimeTomorrow(now))
					return Draft{
						Content: text,
						Details: model.Event{
							StartTime: start,
							EndTime:   start + timecalc.HourMillis,
						},
					}, true
				}
			}
			return Draft{}, false
		},
	}
}
