package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

var (
	listType       string
	listCollection string
	listTag        string
	listLimit      int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Only items of this type (NOTE, FILE, CODE, TRANSACTION, EVENT, TASK, PROJECT, GOAL)")
	listCmd.Flags().StringVar(&listCollection, "collection", "", "Only items in this collection id")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only items carrying this tag")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most n items (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	var typ model.Type
	if listType != "" {
		t, err := model.ParseType(strings.ToUpper(listType))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		typ = t
	}

	s := openSession(context.Background())
	defer s.Close()

	var items []model.Item
	for _, it := range s.ws.Items() {
		if typ != "" && it.Type() != typ {
			continue
		}
		if listCollection != "" && it.CollectionID != listCollection {
			continue
		}
		if listTag != "" && !hasTag(it, listTag) {
			continue
		}
		items = append(items, it)
	}
	if listLimit > 0 && len(items) > listLimit {
		items = items[:listLimit]
	}

	printList(os.Stdout, items)
	return nil
}

func hasTag(it model.Item, tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// printList groups items by creation date and prints one line per item.
func printList(w io.Writer, items []model.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	var currentDay string
	for _, it := range items {
		day := timecalc.FromMillis(it.CreatedAt, time.Local).Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		detail := itemDetail(it)
		if detail != "" {
			detail = "  " + detail
		}
		fmt.Fprintf(w, "  %-8s %-11s %s%s\n", shortID(it.ID), it.Type(), firstLine(it.Title()), detail)
	}
}

// itemDetail is the variant-specific part of a list line.
func itemDetail(it model.Item) string {
	switch d := it.Details.(type) {
	case nil:
		return ""
	case model.Note:
		if d.File {
			return d.FileType
		}
		return d.Subtitle
	case model.Code:
		return string(d.Language)
	case model.Transaction:
		sign := "+"
		if d.IsExpense {
			sign = "-"
		}
		return fmt.Sprintf("%s%s %s  %s", sign, formatAmount(d.Amount), d.Currency, d.Category)
	case model.Event:
		start := timecalc.FromMillis(d.StartTime, time.Local)
		if d.AllDay {
			return start.Format("Mon 02 Jan") + " (all day)"
		}
		s := fmt.Sprintf("%s (%s)", start.Format("Mon 02 Jan 15:04"), timecalc.FormatSpan(d.StartTime, d.EndTime))
		if d.Location != "" {
			s += " @ " + d.Location
		}
		return s
	case model.Task:
		s := fmt.Sprintf("[%s]", d.Status)
		if d.Priority != "" {
			s += " " + string(d.Priority)
		}
		if d.DueDate != nil {
			s += " due " + timecalc.FromMillis(*d.DueDate, time.Local).Format("2006-01-02")
		}
		return s
	case model.Project:
		return fmt.Sprintf("%d%%", d.Progress)
	case model.Goal:
		return fmt.Sprintf("%s / %s", formatAmount(d.CurrentAmount), formatAmount(d.TargetAmount))
	default:
		panic(fmt.Sprintf("unhandled item details %T", d))
	}
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
