package storage

import (
	"testing"

	"pulsenews/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return store
}

func TestSQLiteStore_InsertBatch(t *testing.T) {
	store := newTestStore(t)

	items := []models.NewsItem{
		{Title: "First", Link: "https://example.com/1", Description: "one", Date: "Mon, 01 Jan 2024 10:00:00 GMT"},
		{Title: "Second", Link: "https://example.com/2", Description: "two", Date: "Mon, 01 Jan 2024 11:00:00 GMT"},
	}

	inserted, err := store.InsertBatch(items)
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	if len(inserted) != 2 {
		t.Fatalf("Expected 2 inserted rows, got %d", len(inserted))
	}

	// Ids are assigned and monotonic in insert order
	if inserted[0].ID == 0 || inserted[1].ID == 0 {
		t.Error("Expected inserted rows to carry assigned ids")
	}

	if inserted[1].ID <= inserted[0].ID {
		t.Errorf("Expected monotonic ids, got %d then %d", inserted[0].ID, inserted[1].ID)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestSQLiteStore_InsertBatch_Empty(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.InsertBatch(nil)
	if err != nil {
		t.Fatalf("InsertBatch with no items failed: %v", err)
	}
	if len(inserted) != 0 {
		t.Errorf("Expected no inserted rows, got %d", len(inserted))
	}
}

func TestSQLiteStore_SelectRecent(t *testing.T) {
	store := newTestStore(t)

	items := []models.NewsItem{
		{Title: "oldest", Link: "https://example.com/1"},
		{Title: "middle", Link: "https://example.com/2"},
		{Title: "newest", Link: "https://example.com/3"},
	}
	if _, err := store.InsertBatch(items); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	recent, err := store.SelectRecent(2)
	if err != nil {
		t.Fatalf("SelectRecent failed: %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(recent))
	}

	// Newest first
	if recent[0].Title != "newest" || recent[1].Title != "middle" {
		t.Errorf("Expected newest-first ordering, got %q then %q", recent[0].Title, recent[1].Title)
	}
}

func TestSQLiteStore_SelectPage(t *testing.T) {
	store := newTestStore(t)

	var items []models.NewsItem
	for i := 0; i < 5; i++ {
		items = append(items, models.NewsItem{Title: string(rune('a' + i))})
	}
	if _, err := store.InsertBatch(items); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	// First page, ascending
	page, err := store.SelectPage(0, 2)
	if err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	if len(page) != 2 || page[0].Title != "a" || page[1].Title != "b" {
		t.Errorf("Unexpected first page: %+v", page)
	}

	// Offset into the middle
	page, err = store.SelectPage(2, 2)
	if err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	if len(page) != 2 || page[0].Title != "c" || page[1].Title != "d" {
		t.Errorf("Unexpected second page: %+v", page)
	}

	// Short final page signals the end of the table
	page, err = store.SelectPage(4, 2)
	if err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	if len(page) != 1 || page[0].Title != "e" {
		t.Errorf("Unexpected final page: %+v", page)
	}

	// Past the end
	page, err = store.SelectPage(10, 2)
	if err != nil {
		t.Fatalf("SelectPage failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("Expected empty page past the end, got %+v", page)
	}
}
