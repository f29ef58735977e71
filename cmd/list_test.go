package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
	"github.com/Tiliavir/nexus/internal/workspace"
)

func TestItemDetail(t *testing.T) {
	due := int64(0)
	tests := []struct {
		name string
		item model.Item
		want string
	}{
		{"plain note", model.Item{Content: "x"}, ""},
		{"note subtitle", model.Item{Details: model.Note{Subtitle: "draft"}}, "draft"},
		{"file", model.Item{Details: model.Note{File: true, FileName: "a.pdf", FileType: "application/pdf"}}, "application/pdf"},
		{"code", model.Item{Details: model.Code{Language: model.LanguageCSS}}, "css"},
		{"expense", model.Item{Details: model.Transaction{Amount: 12.5, Currency: "XOF", Category: "Café", IsExpense: true}}, "-12.50 XOF  Café"},
		{"income", model.Item{Details: model.Transaction{Amount: 250000, Currency: "XOF", Category: "Salaire"}}, "+250000 XOF  Salaire"},
		{"task", model.Item{Details: model.Task{Status: model.StatusTodo, Priority: model.PriorityHigh}}, "[TODO] HIGH"},
		{"project", model.Item{Details: model.Project{Name: "Alpha", Progress: 40}}, "40%"},
		{"goal", model.Item{Details: model.Goal{Name: "Car", TargetAmount: 5000, CurrentAmount: 1250.5}}, "1250.50 / 5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := itemDetail(tt.item); got != tt.want {
				t.Errorf("itemDetail = %q, want %q", got, tt.want)
			}
		})
	}

	withDue := model.Item{Details: model.Task{Status: model.StatusDone, DueDate: &due}}
	if got := itemDetail(withDue); !strings.HasPrefix(got, "[DONE] due ") {
		t.Errorf("itemDetail(task with due date) = %q", got)
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" ai, ,papers,")
	if len(got) != 2 || got[0] != "ai" || got[1] != "papers" {
		t.Errorf("splitTags = %v, want [ai papers]", got)
	}
	if got := splitTags(""); got != nil {
		t.Errorf("splitTags(\"\") = %v, want nil", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("Standup\nDaily sync"); got != "Standup" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
}

func TestResolveID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"abc123", "abd456", "xyz789"}
	n := 0
	ws := workspace.New(
		storage.NewGateway(storage.NewFileStore(t.TempDir()), nil),
		workspace.WithIDGenerator(func() string { n++; return ids[n-1] }),
	)
	if err := ws.Load(ctx); err != nil {
		t.Fatal(err)
	}
	for range ids {
		if _, err := ws.QuickAdd(ctx, "a note", model.ModeResearch); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		ref     string
		want    string
		wantErr string
	}{
		{"abc123", "abc123", ""},
		{"xy", "xyz789", ""},
		{"ab", "", "ambiguous"},
		{"nope", "", "no item"},
	}
	for _, tt := range tests {
		it, err := resolveID(ws, tt.ref)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("resolveID(%q) err = %v, want %q", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || it.ID != tt.want {
			t.Errorf("resolveID(%q) = %q, %v; want %q", tt.ref, it.ID, err, tt.want)
		}
	}
}
