package classify_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/classify"
	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

var fixedNow = time.Date(2026, 2, 27, 9, 41, 12, 0, time.UTC)

func newClassifier() *classify.Classifier {
	return classify.New(classify.WithClock(func() time.Time { return fixedNow }))
}

func TestAmountLedTransaction(t *testing.T) {
	d := newClassifier().Classify("5000 courses")
	if d.Type() != model.TypeTransaction {
		t.Fatalf("type = %q, want TRANSACTION", d.Type())
	}
	tx := d.Details.(model.Transaction)
	if tx.Amount != 5000 {
		t.Errorf("amount = %v, want 5000", tx.Amount)
	}
	if d.Content != "courses" {
		t.Errorf("content = %q, want %q", d.Content, "courses")
	}
	if !tx.IsExpense {
		t.Error("isExpense = false, want true")
	}
	if tx.Currency != "XOF" {
		t.Errorf("currency = %q, want XOF", tx.Currency)
	}
	if tx.Category != "Général" {
		t.Errorf("category = %q, want Général", tx.Category)
	}
}

func TestAmountParsing(t *testing.T) {
	tests := []struct {
		input   string
		amount  float64
		content string
	}{
		{"12,50 pain", 12.5, "pain"},
		{"7.25 café", 7.25, "café"},
		{"12 500 loyer", 12500, "loyer"},
		{"250000 Salaire", 250000, "Salaire"},
		{"  42 taxi  ", 42, "taxi"},
		{"100 200", 100, "200"},
	}
	c := newClassifier()
	for _, tt := range tests {
		d := c.Classify(tt.input)
		tx, ok := d.Details.(model.Transaction)
		if !ok {
			t.Errorf("Classify(%q) = %q, want TRANSACTION", tt.input, d.Type())
			continue
		}
		if tx.Amount != tt.amount {
			t.Errorf("Classify(%q) amount = %v, want %v", tt.input, tx.Amount, tt.amount)
		}
		if d.Content != tt.content {
			t.Errorf("Classify(%q) content = %q, want %q", tt.input, d.Content, tt.content)
		}
	}
}

func TestAmountBeatsKeywords(t *testing.T) {
	for _, input := range []string{"20 acheter du pain", "3000 réunion demain", "15 todo"} {
		if got := newClassifier().Classify(input).Type(); got != model.TypeTransaction {
			t.Errorf("Classify(%q) = %q, want TRANSACTION", input, got)
		}
	}
}

func TestTaskPrefix(t *testing.T) {
	d := newClassifier().Classify("Acheter du lait")
	task, ok := d.Details.(model.Task)
	if !ok {
		t.Fatalf("type = %q, want TASK", d.Type())
	}
	if task.Status != model.StatusTodo {
		t.Errorf("status = %q, want TODO", task.Status)
	}
	if d.Content != "Acheter du lait" {
		t.Errorf("content = %q, want original text", d.Content)
	}
}

func TestTaskNeedsPrefix(t *testing.T) {
	// "acheter" in the middle is not a task; no other rule applies either.
	if got := newClassifier().Classify("Il faut acheter du lait").Type(); got != model.TypeNote {
		t.Errorf("type = %q, want NOTE", got)
	}
}

func TestTaskBeatsEvent(t *testing.T) {
	if got := newClassifier().Classify("Appeler Paul demain").Type(); got != model.TypeTask {
		t.Errorf("type = %q, want TASK", got)
	}
}

func TestEventContainment(t *testing.T) {
	d := newClassifier().Classify("Réunion demain à 10h")
	ev, ok := d.Details.(model.Event)
	if !ok {
		t.Fatalf("type = %q, want EVENT", d.Type())
	}
	wantStart := timecalc.Millis(time.Date(2026, 2, 28, 9, 41, 12, 0, time.UTC))
	if ev.StartTime != wantStart {
		t.Errorf("startTime = %d, want %d", ev.StartTime, wantStart)
	}
	if ev.EndTime != ev.StartTime+3600000 {
		t.Errorf("endTime = %d, want startTime + 3600000", ev.EndTime)
	}
	if d.Content != "Réunion demain à 10h" {
		t.Errorf("content = %q", d.Content)
	}
}

func TestDefaultNote(t *testing.T) {
	d := newClassifier().Classify("Juste une pensée en passant")
	if d.Type() != model.TypeNote {
		t.Fatalf("type = %q, want NOTE", d.Type())
	}
	if d.Content != "Juste une pensée en passant" {
		t.Errorf("content = %q", d.Content)
	}
}

func TestDeterministic(t *testing.T) {
	c := newClassifier()
	for _, input := range []string{"5000 courses", "Acheter du lait", "rdv dentiste", "hello"} {
		a, b := c.Classify(input), c.Classify(input)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Classify(%q) not deterministic: %+v vs %+v", input, a, b)
		}
	}
}

func TestCustomRuleOrder(t *testing.T) {
	c := classify.New(
		classify.WithClock(func() time.Time { return fixedNow }),
		classify.WithRules(classify.EventRule(classify.EventKeywords), classify.TaskRule(classify.TaskKeywords)),
	)
	if got := c.Classify("Appeler Paul demain").Type(); got != model.TypeEvent {
		t.Errorf("type = %q, want EVENT with event rule first", got)
	}
	if got := c.Rules(); !reflect.DeepEqual(got, []string{"event", "task"}) {
		t.Errorf("Rules() = %v", got)
	}
}

func TestDraftItem(t *testing.T) {
	it := newClassifier().Classify("Acheter du lait").Item("id-1", 42)
	if it.ID != "id-1" || it.CreatedAt != 42 {
		t.Errorf("item = %+v", it)
	}
	if it.Tags == nil || len(it.Tags) != 0 {
		t.Errorf("tags = %v, want empty", it.Tags)
	}
	if it.Type() != model.TypeTask {
		t.Errorf("type = %q, want TASK", it.Type())
	}
}
