package workspace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
	"github.com/Tiliavir/nexus/internal/workspace"
)

func tx(id string, amount float64, expense bool) model.Item {
	return model.Item{ID: id, Content: id, Details: model.Transaction{Amount: amount, IsExpense: expense}}
}

func TestBalance(t *testing.T) {
	items := []model.Item{
		tx("salary", 250000, false),
		tx("rent", 75000, true),
		tx("bread", 500.5, true),
		tx("refund", 1250.25, false),
		{ID: "n", Content: "not money", Details: model.Note{}},
	}
	s := workspace.Balance(items)
	if s.Income != 251250.25 || s.Expense != 75500.5 {
		t.Errorf("income = %v, expense = %v", s.Income, s.Expense)
	}
	if s.Balance != 175749.75 {
		t.Errorf("balance = %v, want 175749.75", s.Balance)
	}
	if s.Count != 4 {
		t.Errorf("count = %d, want 4", s.Count)
	}
}

func TestBalanceOrderIndependent(t *testing.T) {
	base := []model.Item{
		tx("a", 1000, false),
		tx("b", 250.5, true),
		tx("c", 12.25, true),
		tx("d", 4096, false),
		tx("e", 0.1, false),
		tx("f", 0.2, false),
		tx("g", 0.3, false),
		tx("h", 0.7, true),
		tx("i", 19.99, true),
	}
	want := workspace.Balance(base)
	if want.Income != 5096.6 {
		t.Errorf("income = %v, want 5096.6", want.Income)
	}
	if want.Balance != 4813.16 {
		t.Errorf("balance = %v, want 4813.16", want.Balance)
	}

	// Every rotation and its reverse.
	for shift := 0; shift < len(base); shift++ {
		rotated := append(append([]model.Item{}, base[shift:]...), base[:shift]...)
		if got := workspace.Balance(rotated); got != want {
			t.Errorf("rotation %d: balance = %v, want %v", shift, got, want)
		}
		reversed := make([]model.Item, len(rotated))
		for i := range rotated {
			reversed[len(rotated)-1-i] = rotated[i]
		}
		if got := workspace.Balance(reversed); got != want {
			t.Errorf("reversed rotation %d: balance = %v, want %v", shift, got, want)
		}
	}
}

func TestBalanceEmpty(t *testing.T) {
	if s := workspace.Balance(nil); s != (workspace.Summary{}) {
		t.Errorf("Balance(nil) = %+v", s)
	}
}

func TestCategoryTotals(t *testing.T) {
	items := []model.Item{
		{ID: "1", Details: model.Transaction{Amount: 10, IsExpense: true, Category: "Food"}},
		{ID: "2", Details: model.Transaction{Amount: 5, IsExpense: true, Category: "Food"}},
		{ID: "3", Details: model.Transaction{Amount: 100, IsExpense: false, Category: "Salary"}},
	}
	got := workspace.CategoryTotals(items)
	if got["Food"] != 15 || len(got) != 1 {
		t.Errorf("totals = %v", got)
	}

	small := []model.Item{
		{ID: "a", Details: model.Transaction{Amount: 0.1, IsExpense: true, Category: "Snacks"}},
		{ID: "b", Details: model.Transaction{Amount: 0.2, IsExpense: true, Category: "Snacks"}},
		{ID: "c", Details: model.Transaction{Amount: 0.3, IsExpense: true, Category: "Snacks"}},
	}
	forward := workspace.CategoryTotals(small)
	backward := workspace.CategoryTotals([]model.Item{small[2], small[1], small[0]})
	if forward["Snacks"] != 0.6 || backward["Snacks"] != 0.6 {
		t.Errorf("snacks = %v / %v, want 0.6 in both orders", forward["Snacks"], backward["Snacks"])
	}
}

func task(id, projectID string, status model.TaskStatus) model.Item {
	return model.Item{ID: id, Content: id, Details: model.Task{Status: status, ProjectID: projectID}}
}

func TestProjectProgress(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		want  int
	}{
		{"no tasks", nil, 0},
		{"one of three", []model.Item{task("1", "p", model.StatusDone), task("2", "p", model.StatusTodo), task("3", "p", model.StatusInProgress)}, 33},
		{"two of three", []model.Item{task("1", "p", model.StatusDone), task("2", "p", model.StatusDone), task("3", "p", model.StatusTodo)}, 67},
		{"other project ignored", []model.Item{task("1", "p", model.StatusDone), task("2", "q", model.StatusTodo)}, 100},
	}
	for _, tt := range tests {
		if got := workspace.ProjectProgress("p", tt.items); got != tt.want {
			t.Errorf("%s: progress = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMoveTaskUpdatesProjects(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, t.TempDir())
	p, err := w.CreateProject(ctx, workspace.ProjectInput{Name: "Alpha"})
	if err != nil {
		t.Fatal(err)
	}
	t1, err := w.CreateTask(ctx, workspace.TaskInput{Content: "API", ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateTask(ctx, workspace.TaskInput{Content: "UI", ProjectID: p.ID}); err != nil {
		t.Fatal(err)
	}

	if _, err := w.MoveTask(ctx, t1.ID, model.StatusDone); err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	projects := w.Projects()
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
	if projects[0].Progress != 50 || projects[0].Done != 1 || len(projects[0].Tasks) != 2 {
		t.Errorf("status = %+v", projects[0])
	}

	if _, err := w.MoveTask(ctx, t1.ID, "LATER"); !errors.Is(err, workspace.ErrValidation) {
		t.Errorf("bad status err = %v, want ErrValidation", err)
	}
	if _, err := w.MoveTask(ctx, p.ID, model.StatusDone); !errors.Is(err, workspace.ErrValidation) {
		t.Errorf("moving a project err = %v, want ErrValidation", err)
	}
	if _, err := w.MoveTask(ctx, "ghost", model.StatusDone); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing task err = %v, want ErrNotFound", err)
	}
}

func TestEventsBetween(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, t.TempDir())
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []workspace.EventInput{
		{Title: "late", Start: day.Add(16 * time.Hour)},
		{Title: "early", Start: day.Add(9 * time.Hour)},
		{Title: "next day", Start: day.Add(33 * time.Hour)},
		{Title: "overnight", Start: day.Add(-2 * time.Hour), End: day.Add(time.Hour)},
	} {
		if _, err := w.CreateEvent(ctx, in); err != nil {
			t.Fatal(err)
		}
	}
	got := w.EventsBetween(day, day.Add(24*time.Hour-time.Second))
	var titles []string
	for _, it := range got {
		titles = append(titles, it.Content)
	}
	want := []string{"overnight", "early", "late"}
	if len(titles) != len(want) {
		t.Fatalf("events = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("events = %v, want %v", titles, want)
		}
	}
}
