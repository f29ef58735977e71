package msgraph

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

// Source tags every item imported from Outlook.
const Source = "outlook"

// Calendar is where synced events are looked up and saved.
// *workspace.Workspace satisfies it.
type Calendar interface {
	FindByExternalID(externalID string) (model.Item, bool)
	Update(ctx context.Context, it model.Item) (model.Item, error)
}

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// CollectionID receives newly imported events.
	CollectionID string
	// Timezone is the IANA zone Graph reported times in. Empty = UTC.
	Timezone string
	DryRun   bool
	// Out receives one progress line per event. Nil discards them.
	Out   io.Writer
	Now   func() time.Time
	NewID func() string
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// eventContent is the subject, followed by the body preview when present.
func eventContent(event CalendarEvent) string {
	subject := strings.TrimSpace(event.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	if body := strings.TrimSpace(event.BodyPreview); body != "" {
		return subject + "\n" + body
	}
	return subject
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToItem converts a Graph CalendarEvent into an EVENT item. The
// returned item has no id, creation time or collection yet.
func MapEventToItem(event CalendarEvent, timezone string) (model.Item, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Item{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Item{}, fmt.Errorf("parsing end time: %w", err)
	}
	if endTime.Before(startTime) {
		return model.Item{}, fmt.Errorf("event ends before it starts")
	}

	ev := model.Event{
		StartTime:  timecalc.Millis(startTime),
		EndTime:    timecalc.Millis(endTime),
		Location:   event.Location.DisplayName,
		AllDay:     event.IsAllDay,
		Recurrence: model.RecurrenceNone,
		ExternalID: event.ID,
	}
	if event.IsReminderOn {
		ev.Reminders = []int{event.ReminderMinutesBeforeStart}
	}
	return model.Item{
		Content: eventContent(event),
		Tags:    []string{Source},
		Details: ev,
	}, nil
}

// unchanged reports whether the imported fields of a and b agree.
func unchanged(a, b model.Item) bool {
	ea, _ := a.Details.(model.Event)
	eb, _ := b.Details.(model.Event)
	return a.Content == b.Content &&
		ea.StartTime == eb.StartTime &&
		ea.EndTime == eb.EndTime &&
		ea.Location == eb.Location &&
		ea.AllDay == eb.AllDay
}

// SyncEvents saves events into cal. Events already imported (matched by
// their Graph id) are updated when they changed and skipped otherwise, so
// running a sync twice never duplicates anything.
func SyncEvents(ctx context.Context, cal Calendar, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if shouldSkip(event) {
			continue
		}

		it, err := MapEventToItem(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		ev := it.Details.(model.Event)
		span := timecalc.FormatSpan(ev.StartTime, ev.EndTime)

		if found, ok := cal.FindByExternalID(event.ID); ok {
			if unchanged(found, it) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			// Keep identity and user edits that Graph does not know about.
			prev := found.Details.(model.Event)
			ev.Recurrence = prev.Recurrence
			if len(prev.Reminders) > 0 {
				ev.Reminders = prev.Reminders
			}
			found.Content = it.Content
			found.Details = ev
			if !opts.DryRun {
				if _, err := cal.Update(ctx, found); err != nil {
					fmt.Fprintf(out, "  ! Error updating %q: %v\n", event.Subject, err)
					result.Errors++
					continue
				}
			}
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", event.Subject, span)
			result.Updated++
			continue
		}

		it.ID = newID()
		it.CreatedAt = timecalc.Millis(now())
		it.CollectionID = opts.CollectionID
		if !opts.DryRun {
			if _, err := cal.Update(ctx, it); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, span)
		result.Imported++
	}

	return result, nil
}
