package workspace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/workspace"
)

func TestCreateRejectsInvalidInput(t *testing.T) {
	start := fixedNow.Add(24 * time.Hour)
	tests := []struct {
		name   string
		create func(w *workspace.Workspace) error
	}{
		{"note without title", func(w *workspace.Workspace) error {
			_, err := w.CreateNote(context.Background(), workspace.NoteInput{Body: "text"})
			return err
		}},
		{"code with unknown language", func(w *workspace.Workspace) error {
			_, err := w.CreateCode(context.Background(), workspace.CodeInput{Title: "x", Language: "cobol"})
			return err
		}},
		{"transaction without amount", func(w *workspace.Workspace) error {
			_, err := w.CreateTransaction(context.Background(), workspace.TransactionInput{Description: "pain"})
			return err
		}},
		{"transaction with negative amount", func(w *workspace.Workspace) error {
			_, err := w.CreateTransaction(context.Background(), workspace.TransactionInput{Description: "pain", Amount: -5})
			return err
		}},
		{"transaction without description", func(w *workspace.Workspace) error {
			_, err := w.CreateTransaction(context.Background(), workspace.TransactionInput{Amount: 5})
			return err
		}},
		{"event without start", func(w *workspace.Workspace) error {
			_, err := w.CreateEvent(context.Background(), workspace.EventInput{Title: "Dentiste"})
			return err
		}},
		{"event ending before start", func(w *workspace.Workspace) error {
			_, err := w.CreateEvent(context.Background(), workspace.EventInput{Title: "Dentiste", Start: start, End: start.Add(-time.Minute)})
			return err
		}},
		{"task with unknown status", func(w *workspace.Workspace) error {
			_, err := w.CreateTask(context.Background(), workspace.TaskInput{Content: "x", Status: "BLOCKED"})
			return err
		}},
		{"project without name", func(w *workspace.Workspace) error {
			_, err := w.CreateProject(context.Background(), workspace.ProjectInput{})
			return err
		}},
		{"goal without target", func(w *workspace.Workspace) error {
			_, err := w.CreateGoal(context.Background(), workspace.GoalInput{Name: "Moto"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t, t.TempDir())
			err := tt.create(w)
			if !errors.Is(err, workspace.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if n := len(w.Items()); n != 0 {
				t.Errorf("%d items stored after rejected input", n)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, t.TempDir())

	n, err := w.CreateNote(ctx, workspace.NoteInput{Title: "Attention is all you need"})
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Tags) != 1 || n.Tags[0] != "research" {
		t.Errorf("note tags = %v, want [research]", n.Tags)
	}

	f, err := w.CreateNote(ctx, workspace.NoteInput{Title: "Scan", FileName: "scan.pdf", CollectionID: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Type() != model.TypeFile || f.CollectionID != "2" {
		t.Errorf("file = %+v", f)
	}

	c, err := w.CreateCode(ctx, workspace.CodeInput{Title: "Hello", Code: "<h1>hi</h1>"})
	if err != nil {
		t.Fatal(err)
	}
	if code := c.Details.(model.Code); code.Language != model.LanguageHTML {
		t.Errorf("language = %q, want html", code.Language)
	}

	tx, err := w.CreateTransaction(ctx, workspace.TransactionInput{Description: "Loyer", Amount: 75000, IsExpense: true, CollectionID: "3"})
	if err != nil {
		t.Fatal(err)
	}
	d := tx.Details.(model.Transaction)
	if d.Currency != "XOF" || d.Category != "Général" || d.Date != fixedNow.UnixMilli() {
		t.Errorf("transaction = %+v", d)
	}

	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	ev, err := w.CreateEvent(ctx, workspace.EventInput{Title: "Sprint review", Start: start, Location: "Salle B"})
	if err != nil {
		t.Fatal(err)
	}
	if e := ev.Details.(model.Event); e.EndTime-e.StartTime != 3600000 {
		t.Errorf("event duration = %d ms, want one hour", e.EndTime-e.StartTime)
	}

	p, err := w.CreateProject(ctx, workspace.ProjectInput{Name: "Alpha"})
	if err != nil {
		t.Fatal(err)
	}
	if proj := p.Details.(model.Project); proj.Progress != 0 || proj.Members == nil {
		t.Errorf("project = %+v", proj)
	}

	task, err := w.CreateTask(ctx, workspace.TaskInput{Content: "Maquettes", ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if d := task.Details.(model.Task); d.Status != model.StatusTodo || d.Priority != model.PriorityMedium || d.ProjectID != p.ID {
		t.Errorf("task = %+v", d)
	}

	g, err := w.CreateGoal(ctx, workspace.GoalInput{Name: "Moto", TargetAmount: 500000, CurrentAmount: 600000})
	if err != nil {
		t.Fatal(err)
	}
	if goal := g.Details.(model.Goal); goal.CurrentAmount <= goal.TargetAmount {
		t.Errorf("goal = %+v, want current above target to be kept", goal)
	}

	if got := len(w.Items()); got != 8 {
		t.Errorf("items = %d, want 8", got)
	}
}
