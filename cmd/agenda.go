package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

var (
	agendaWeek bool
	agendaDate string
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show today's events, or this week's with --week",
	Args:  cobra.NoArgs,
	RunE:  runAgenda,
}

func init() {
	agendaCmd.Flags().BoolVar(&agendaWeek, "week", false, "Show the current week")
	agendaCmd.Flags().StringVar(&agendaDate, "date", "", "Show a specific date (YYYY-MM-DD)")
}

func runAgenda(cmd *cobra.Command, args []string) error {
	now := time.Now()

	var from, to time.Time
	switch {
	case agendaDate != "":
		d, err := timecalc.ParseDate(agendaDate, time.Local)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		from, to = timecalc.StartOfDay(d), timecalc.EndOfDay(d)
	case agendaWeek:
		from, to = timecalc.WeekRange(now)
		fmt.Printf("Week %s\n", timecalc.ISOWeekLabel(now))
	default:
		from, to = timecalc.StartOfDay(now), timecalc.EndOfDay(now)
	}

	s := openSession(context.Background())
	defer s.Close()

	events := s.ws.EventsBetween(from, to)
	printAgenda(events, now)
	return nil
}

// printAgenda groups events by start day. The next upcoming event gets a
// countdown.
func printAgenda(events []model.Item, now time.Time) {
	if len(events) == 0 {
		fmt.Println("No events.")
		return
	}

	nowMs := timecalc.Millis(now)
	marked := false
	var prev time.Time
	for i, it := range events {
		ev := it.Details.(model.Event)
		start := timecalc.FromMillis(ev.StartTime, time.Local)
		if i == 0 || !timecalc.SameDay(prev, start) {
			fmt.Println(start.Format("Mon 2006-01-02"))
		}
		prev = start

		when := start.Format("15:04") + "–" + timecalc.FromMillis(ev.EndTime, time.Local).Format("15:04")
		if ev.AllDay {
			when = "all day    "
		}
		line := fmt.Sprintf("  %s  %s", when, firstLine(it.Content))
		if ev.Location != "" {
			line += " @ " + ev.Location
		}
		switch {
		case ev.StartTime <= nowMs && nowMs < ev.EndTime:
			line += "  (now)"
		case !marked && ev.StartTime > nowMs:
			line += fmt.Sprintf("  (in %s)", formatElapsed((ev.StartTime-nowMs)/1000))
			marked = true
		}
		fmt.Println(line)
	}
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
