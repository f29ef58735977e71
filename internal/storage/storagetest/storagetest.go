// Package storagetest holds a behavioural test suite shared by every
// storage.Store implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
)

// Run exercises newStore against the Store contract. newStore must return an
// empty store; the suite closes it.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CollectionsAbsent", testCollectionsAbsent},
		{"CollectionsRoundTrip", testCollectionsRoundTrip},
		{"PutIsUpsert", testPutIsUpsert},
		{"ListByCollection", testListByCollection},
		{"ListNewestFirst", testListNewestFirst},
		{"DeleteRemoves", testDeleteRemoves},
		{"DeleteMissing", testDeleteMissing},
		{"MoveBetweenCollections", testMoveBetweenCollections},
		{"KeepsVariantFields", testKeepsVariantFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func note(id, collectionID, content string, createdAt int64) model.Item {
	return model.Item{
		ID:           id,
		CreatedAt:    createdAt,
		Content:      content,
		Tags:         []string{},
		CollectionID: collectionID,
		Details:      model.Note{},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func testCollectionsAbsent(t *testing.T, s storage.Store) {
	_, err := s.LoadCollections(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("LoadCollections on empty store: err = %v, want ErrNotFound", err)
	}
}

func testCollectionsRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	cols := []model.Collection{
		{ID: "1", Name: "Inbox", Mode: model.ModeResearch, Description: "d", Pinned: true},
		{ID: "2", Name: "Money", Mode: model.ModeFinance, Description: "m", Icon: "wallet"},
	}
	if err := s.SaveCollections(ctx, cols); err != nil {
		t.Fatalf("SaveCollections: %v", err)
	}
	got, err := s.LoadCollections(ctx)
	if err != nil {
		t.Fatalf("LoadCollections: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("collections = %d, want 2", len(got))
	}
	if got[0] != cols[0] || got[1] != cols[1] {
		t.Errorf("collections = %+v, want %+v", got, cols)
	}
}

func testPutIsUpsert(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.PutItem(ctx, note("a", "1", "first", 10)); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if err := s.PutItem(ctx, note("a", "1", "second", 10)); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	items, err := s.ListItems(ctx, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v, want exactly one", ids(items))
	}
	if items[0].Content != "second" {
		t.Errorf("content = %q, want %q", items[0].Content, "second")
	}
}

func testListByCollection(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, it := range []model.Item{note("a", "1", "x", 1), note("b", "2", "y", 2), note("c", "1", "z", 3)} {
		if err := s.PutItem(ctx, it); err != nil {
			t.Fatalf("PutItem: %v", err)
		}
	}
	items, err := s.ListItems(ctx, "1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if got := ids(items); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("collection 1 = %v, want [c a]", got)
	}
	unknown, err := s.ListItems(ctx, "nope")
	if err != nil {
		t.Fatalf("ListItems(unknown): %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown collection = %v, want empty", ids(unknown))
	}
}

func testListNewestFirst(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, it := range []model.Item{note("old", "1", "", 100), note("new", "1", "", 300), note("mid", "1", "", 200)} {
		if err := s.PutItem(ctx, it); err != nil {
			t.Fatalf("PutItem: %v", err)
		}
	}
	items, err := s.ListItems(ctx, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	got := ids(items)
	want := []string{"new", "mid", "old"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func testDeleteRemoves(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.PutItem(ctx, note("a", "1", "x", 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutItem(ctx, note("b", "1", "y", 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteItem(ctx, "a"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	items, err := s.ListItems(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(items); len(got) != 1 || got[0] != "b" {
		t.Errorf("after delete = %v, want [b]", got)
	}
}

func testDeleteMissing(t *testing.T, s storage.Store) {
	err := s.DeleteItem(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteItem(ghost) err = %v, want ErrNotFound", err)
	}
}

func testMoveBetweenCollections(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.PutItem(ctx, note("a", "1", "x", 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutItem(ctx, note("a", "2", "x", 1)); err != nil {
		t.Fatal(err)
	}
	first, err := s.ListItems(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.ListItems(ctx, "2")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 0 || len(second) != 1 {
		t.Errorf("collection 1 = %v, collection 2 = %v; want item only in 2", ids(first), ids(second))
	}
}

func testKeepsVariantFields(t *testing.T, s storage.Store) {
	ctx := context.Background()
	due := int64(1772186400000)
	it := model.Item{
		ID:           "t1",
		CreatedAt:    5,
		Content:      "Finir le rapport",
		Tags:         []string{"work"},
		CollectionID: "5",
		Details: model.Task{
			Status:    model.StatusInProgress,
			DueDate:   &due,
			ProjectID: "p1",
			Priority:  model.PriorityHigh,
		},
	}
	if err := s.PutItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	items, err := s.ListItems(ctx, "5")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	task, ok := items[0].Details.(model.Task)
	if !ok {
		t.Fatalf("details = %T, want model.Task", items[0].Details)
	}
	if task.Status != model.StatusInProgress || task.ProjectID != "p1" || task.Priority != model.PriorityHigh {
		t.Errorf("task = %+v", task)
	}
	if task.DueDate == nil || *task.DueDate != due {
		t.Errorf("dueDate = %v, want %d", task.DueDate, due)
	}
	if len(items[0].Tags) != 1 || items[0].Tags[0] != "work" {
		t.Errorf("tags = %v, want [work]", items[0].Tags)
	}
}
