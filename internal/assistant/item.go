package assistant

import (
	"math"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

const (
	defaultCurrency = "XOF"
	defaultCategory = "Général"
)

// Item converts the result into a workspace item. raw is the user's input and
// fills the content when the model left it out. ANSWER yields no item.
func (r Result) Item(id string, now time.Time, raw string) (model.Item, bool) {
	d := r.Data
	tags := d.SuggestedTags
	if tags == nil {
		tags = []string{}
	}
	it := model.Item{
		ID:        id,
		CreatedAt: timecalc.Millis(now),
		Tags:      tags,
	}

	switch r.Action {
	case ActionCreateTransaction:
		tx := model.Transaction{
			Currency:  firstNonEmpty(d.Currency, defaultCurrency),
			Category:  firstNonEmpty(d.Category, defaultCategory),
			IsExpense: true,
			Date:      timecalc.Millis(now),
		}
		if d.Amount != nil {
			tx.Amount = math.Abs(*d.Amount)
		}
		if d.IsExpense != nil {
			tx.IsExpense = *d.IsExpense
		}
		it.Content = firstNonEmpty(d.Description, d.Content, d.Title, raw)
		it.Details = tx

	case ActionCreateEvent:
		start := parseISO(d.StartTimeISO, now)
		end := parseISO(d.EndTimeISO, start.Add(time.Hour))
		if end.Before(start) {
			end = start.Add(time.Hour)
		}
		it.Content = firstNonEmpty(d.Title, d.Content, d.Description, raw)
		it.Details = model.Event{
			StartTime: timecalc.Millis(start),
			EndTime:   timecalc.Millis(end),
			Location:  d.Location,
		}

	case ActionCreateTask:
		task := model.Task{Status: model.StatusTodo, Priority: model.PriorityMedium}
		for _, s := range model.TaskStatuses {
			if string(s) == d.Status {
				task.Status = s
			}
		}
		if d.DueDateISO != "" {
			if due, err := time.Parse(time.RFC3339, d.DueDateISO); err == nil {
				ms := timecalc.Millis(due)
				task.DueDate = &ms
			}
		}
		it.Content = firstNonEmpty(d.Title, d.Description, d.Content, raw)
		it.Details = task

	case ActionCreateGoal:
		g := model.Goal{Name: firstNonEmpty(d.Title, d.Description, d.Content, raw)}
		if d.TargetAmount != nil {
			g.TargetAmount = *d.TargetAmount
		}
		if d.CurrentAmount != nil {
			g.CurrentAmount = *d.CurrentAmount
		}
		it.Content = g.Name
		it.Details = g

	case ActionNote:
		it.Content = firstNonEmpty(d.Content, d.Description, raw)
		it.Details = model.Note{}

	case ActionAnswer:
		return model.Item{}, false

	default:
		return model.Item{}, false
	}
	return it, true
}

// parseISO accepts RFC 3339 with or without a zone offset.
func parseISO(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, fallback.Location()); err == nil {
			return t
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
