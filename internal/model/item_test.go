package model_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Tiliavir/nexus/internal/model"
)

func TestUnmarshalPicksVariant(t *testing.T) {
	tests := []struct {
		name string
		json string
		want model.Type
	}{
		{"note", `{"id":"1","type":"NOTE","createdAt":1,"content":"c","tags":[]}`, model.TypeNote},
		{"file", `{"id":"2","type":"FILE","createdAt":1,"content":"c","tags":[],"fileName":"a.pdf"}`, model.TypeFile},
		{"transaction", `{"id":"3","type":"TRANSACTION","createdAt":1,"content":"c","tags":[],"amount":12.5}`, model.TypeTransaction},
		{"event", `{"id":"4","type":"EVENT","createdAt":1,"content":"c","tags":[],"startTime":10,"endTime":20}`, model.TypeEvent},
		{"task", `{"id":"5","type":"TASK","createdAt":1,"content":"c","tags":[],"status":"DONE"}`, model.TypeTask},
		{"project", `{"id":"6","type":"PROJECT","createdAt":1,"content":"c","tags":[],"name":"Alpha"}`, model.TypeProject},
		{"goal", `{"id":"7","type":"GOAL","createdAt":1,"content":"c","tags":[],"name":"Car"}`, model.TypeGoal},
		{"code", `{"id":"8","type":"CODE","createdAt":1,"content":"c","tags":[],"language":"css"}`, model.TypeCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it model.Item
			if err := json.Unmarshal([]byte(tt.json), &it); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if it.Type() != tt.want {
				t.Errorf("Type() = %q, want %q", it.Type(), tt.want)
			}
		})
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	var it model.Item
	err := json.Unmarshal([]byte(`{"id":"x","type":"RECIPE","createdAt":1,"content":"c"}`), &it)
	if !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestMarshalFlatRecord(t *testing.T) {
	it := model.Item{
		ID:           "tx-1",
		CreatedAt:    1700000000000,
		Content:      "courses",
		CollectionID: "3",
		Details: model.Transaction{
			Amount:    5000,
			Currency:  "XOF",
			Category:  "Général",
			IsExpense: true,
		},
	}
	data, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["type"] != "TRANSACTION" {
		t.Errorf("type = %v, want TRANSACTION", raw["type"])
	}
	if raw["collectionId"] != "3" {
		t.Errorf("collectionId = %v, want 3", raw["collectionId"])
	}
	if raw["amount"] != 5000.0 {
		t.Errorf("amount = %v, want 5000", raw["amount"])
	}
	if tags, ok := raw["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("tags = %v, want empty list", raw["tags"])
	}
	if strings.Contains(string(data), `"File"`) {
		t.Errorf("unexpected File field in %s", data)
	}
}

func TestFileKeepsTypeThroughJSON(t *testing.T) {
	in := model.Item{
		ID:      "f1",
		Content: "Scan",
		Tags:    []string{"research"},
		Details: model.Note{File: true, FileName: "scan.pdf", FileType: "application/pdf"},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out model.Item
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	n, ok := out.Details.(model.Note)
	if !ok {
		t.Fatalf("Details = %T, want model.Note", out.Details)
	}
	if !n.File || n.FileName != "scan.pdf" {
		t.Errorf("note = %+v, want file scan.pdf", n)
	}
	if out.Type() != model.TypeFile {
		t.Errorf("Type() = %q, want FILE", out.Type())
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want string
	}{
		{"project name", model.Item{Content: "desc", Details: model.Project{Name: "Alpha"}}, "Alpha"},
		{"goal falls back to content", model.Item{Content: "Car", Details: model.Goal{}}, "Car"},
		{"file name when content empty", model.Item{Details: model.Note{File: true, FileName: "a.txt"}}, "a.txt"},
		{"task content", model.Item{Content: "Acheter du lait", Details: model.Task{}}, "Acheter du lait"},
	}
	for _, tt := range tests {
		if got := tt.item.Title(); got != tt.want {
			t.Errorf("%s: Title() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	if got, err := model.ParseType("EVENT"); err != nil || got != model.TypeEvent {
		t.Errorf("ParseType(EVENT) = %q, %v", got, err)
	}
	if _, err := model.ParseType("event"); !errors.Is(err, model.ErrUnknownType) {
		t.Errorf("ParseType(event) err = %v, want ErrUnknownType", err)
	}
}
