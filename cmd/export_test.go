package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	items := []model.Item{
		{
			ID:           "tx-1",
			CreatedAt:    timecalc.Millis(created),
			Content:      `Lunch, "Chez Awa"`,
			Tags:         []string{"food", "team"},
			CollectionID: "3",
			Details:      model.Transaction{Amount: 4500, Currency: "XOF", Category: "Food", IsExpense: true},
		},
		{
			ID:           "note-1",
			CreatedAt:    timecalc.Millis(created),
			Content:      "Reading list",
			CollectionID: "1",
		},
	}

	var buf bytes.Buffer
	printCSV(&buf, items)

	stamp := created.Format(time.RFC3339)
	want := "id,type,collection_id,created_at,title,tags,detail\n" +
		"tx-1,TRANSACTION,3," + stamp + `,"Lunch, ""Chez Awa""",food;team,-4500 XOF  Food` + "\n" +
		"note-1,NOTE,1," + stamp + ",Reading list,,\n"
	if got := buf.String(); got != want {
		t.Errorf("printCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestPrintList(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)
	items := []model.Item{
		{ID: "0123456789abcdef", CreatedAt: timecalc.Millis(day1), Content: "Standup notes\nsecond line"},
		{ID: "task-1", CreatedAt: timecalc.Millis(day1), Content: "Ship it", Details: model.Task{Status: model.StatusTodo, Priority: model.PriorityHigh}},
		{ID: "code-1", CreatedAt: timecalc.Millis(day2), Content: "reset.css", Details: model.Code{Language: model.LanguageCSS}},
	}

	var buf bytes.Buffer
	printList(&buf, items)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("printList wrote %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != "2026-03-14" || lines[3] != "2026-03-15" {
		t.Errorf("day headers = %q, %q", lines[0], lines[3])
	}
	if !strings.HasPrefix(lines[1], "  01234567 NOTE") || !strings.HasSuffix(lines[1], "Standup notes") {
		t.Errorf("note line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "Ship it  [TODO] HIGH") {
		t.Errorf("task line = %q", lines[2])
	}
	if !strings.HasSuffix(lines[4], "reset.css  css") {
		t.Errorf("code line = %q", lines[4])
	}
}

func TestPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	printList(&buf, nil)
	if buf.String() != "No items found.\n" {
		t.Errorf("printList(nil) = %q", buf.String())
	}
}
