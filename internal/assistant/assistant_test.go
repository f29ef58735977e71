package assistant_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/nexus/internal/assistant"
	"github.com/Tiliavir/nexus/internal/model"
)

var fixedNow = time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

// fakeModel returns a canned reply and records the prompts it saw.
type fakeModel struct {
	reply  string
	err    error
	system string
	prompt string
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.reply, f.err
}

func newAssistant(m assistant.Model) *assistant.Assistant {
	return assistant.New(m, assistant.WithClock(func() time.Time { return fixedNow }))
}

func TestParseNotConfigured(t *testing.T) {
	a := assistant.New(nil)
	if a.Enabled() {
		t.Error("Enabled() = true without a model")
	}
	if _, err := a.Parse(context.Background(), "hello", model.ModeResearch); !errors.Is(err, assistant.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestParsePromptCarriesModeAndDate(t *testing.T) {
	m := &fakeModel{reply: `{"action":"NOTE","data":{"content":"x"}}`}
	if _, err := newAssistant(m).Parse(context.Background(), "Salaire reçu", model.ModeFinance); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.system, `"FINANCE"`) {
		t.Errorf("system instruction lacks mode: %s", m.system)
	}
	if !strings.Contains(m.system, "2026-02-27T09:00:00Z") {
		t.Errorf("system instruction lacks current date: %s", m.system)
	}
	if !strings.Contains(m.prompt, "Salaire reçu") {
		t.Errorf("prompt = %q", m.prompt)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"transport", &fakeModel{err: errors.New("connection refused")}},
		{"empty", &fakeModel{reply: "   "}},
		{"not json", &fakeModel{reply: "Sure! Here you go."}},
		{"unknown action", &fakeModel{reply: `{"action":"DELETE_EVERYTHING"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newAssistant(tt.model).Parse(context.Background(), "x", model.ModeResearch); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFencedJSON(t *testing.T) {
	m := &fakeModel{reply: "```json\n{\"action\":\"ANSWER\",\"conversationalResponse\":\"42\"}\n```"}
	res, err := newAssistant(m).Parse(context.Background(), "answer?", model.ModeResearch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != assistant.ActionAnswer || res.Response != "42" {
		t.Errorf("result = %+v", res)
	}
	if _, ok := res.Item("id", fixedNow, "answer?"); ok {
		t.Error("ANSWER produced an item")
	}
}

func TestIncomeTransaction(t *testing.T) {
	m := &fakeModel{reply: `{"action":"CREATE_TRANSACTION","data":{"amount":250000,"isExpense":false,"description":"Salaire","category":"Revenu"}}`}
	res, err := newAssistant(m).Parse(context.Background(), "250000 Salaire", model.ModeFinance)
	if err != nil {
		t.Fatal(err)
	}
	it, ok := res.Item("tx-1", fixedNow, "250000 Salaire")
	if !ok {
		t.Fatal("no item")
	}
	tx, ok := it.Details.(model.Transaction)
	if !ok {
		t.Fatalf("details = %T", it.Details)
	}
	if tx.IsExpense || tx.Amount != 250000 || tx.Currency != "XOF" || tx.Category != "Revenu" {
		t.Errorf("transaction = %+v", tx)
	}
	if it.Content != "Salaire" {
		t.Errorf("content = %q", it.Content)
	}
}

func TestResultItemVariants(t *testing.T) {
	amount := 50.0
	target, current := 1000.0, 200.0
	tests := []struct {
		name string
		res  assistant.Result
		want model.Type
		text string
	}{
		{"transaction defaults", assistant.Result{Action: assistant.ActionCreateTransaction, Data: assistant.Data{Amount: &amount}}, model.TypeTransaction, "raw"},
		{"event", assistant.Result{Action: assistant.ActionCreateEvent, Data: assistant.Data{Title: "Dentiste", StartTimeISO: "2026-02-28T10:00:00Z"}}, model.TypeEvent, "Dentiste"},
		{"task", assistant.Result{Action: assistant.ActionCreateTask, Data: assistant.Data{Title: "Envoyer le devis", Status: "IN_PROGRESS"}}, model.TypeTask, "Envoyer le devis"},
		{"goal", assistant.Result{Action: assistant.ActionCreateGoal, Data: assistant.Data{Title: "Moto", TargetAmount: &target, CurrentAmount: &current}}, model.TypeGoal, "Moto"},
		{"note", assistant.Result{Action: assistant.ActionNote, Data: assistant.Data{SuggestedTags: []string{"idea"}}}, model.TypeNote, "raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := tt.res.Item("id", fixedNow, "raw")
			if !ok {
				t.Fatal("no item")
			}
			if it.Type() != tt.want {
				t.Errorf("type = %q, want %q", it.Type(), tt.want)
			}
			if it.Content != tt.text {
				t.Errorf("content = %q, want %q", it.Content, tt.text)
			}
			if it.Tags == nil {
				t.Error("tags = nil, want a list")
			}
		})
	}
}

func TestEventDefaultsToOneHour(t *testing.T) {
	res := assistant.Result{Action: assistant.ActionCreateEvent, Data: assistant.Data{StartTimeISO: "2026-02-28T10:00:00Z"}}
	it, _ := res.Item("e", fixedNow, "rdv")
	ev := it.Details.(model.Event)
	if ev.EndTime-ev.StartTime != 3600000 {
		t.Errorf("duration = %d ms, want 3600000", ev.EndTime-ev.StartTime)
	}
}

func TestTaskKeepsStatus(t *testing.T) {
	res := assistant.Result{Action: assistant.ActionCreateTask, Data: assistant.Data{Status: "DONE", DueDateISO: "2026-03-01T00:00:00Z"}}
	it, _ := res.Item("t", fixedNow, "finir")
	task := it.Details.(model.Task)
	if task.Status != model.StatusDone {
		t.Errorf("status = %q, want DONE", task.Status)
	}
	if task.DueDate == nil {
		t.Error("dueDate not set")
	}
}
