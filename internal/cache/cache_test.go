package cache

import (
	"path/filepath"
	"testing"
	"time"

	"mynote-cli/internal/model"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := openTest(t)

	created := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	categories := map[int64]model.Category{
		1: {ID: 1, UserID: 7, Name: "Work", NoteCount: 1},
		2: {ID: 2, UserID: 7, Name: "Home", NoteCount: 0},
	}
	notes := map[int64][]model.NoteSummary{
		1: {{ID: 10, UserID: 7, CategoryID: 1, UserSeqNo: 3, Title: "Compilers",
			CreatedAt: created, UpdatedAt: created}},
	}
	toc := map[int64][]model.TocItem{
		10: {
			{ID: 101, IndexNumber: 2, StartPage: 10, EndPage: 19, Title: "Second"},
			{ID: 100, IndexNumber: 1, StartPage: 1, EndPage: 9, Title: "First", Body: "body"},
		},
	}

	if err := c.Save(categories, notes, toc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotCats, gotNotes, gotToc, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(gotCats) != 2 || gotCats[1].Name != "Work" || gotCats[2].Name != "Home" {
		t.Fatalf("categories = %#v", gotCats)
	}
	if len(gotNotes[1]) != 1 {
		t.Fatalf("notes = %#v", gotNotes)
	}
	n := gotNotes[1][0]
	if n.Title != "Compilers" || !n.CreatedAt.Equal(created) {
		t.Fatalf("note = %+v", n)
	}
	// TOC comes back sorted by index number regardless of insert order.
	if len(gotToc[10]) != 2 || gotToc[10][0].ID != 100 || gotToc[10][1].ID != 101 {
		t.Fatalf("toc = %#v", gotToc[10])
	}
	if gotToc[10][0].Body != "body" {
		t.Fatalf("toc body = %q", gotToc[10][0].Body)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	c := openTest(t)

	first := map[int64]model.Category{1: {ID: 1, Name: "Old"}}
	if err := c.Save(first, nil, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := map[int64]model.Category{2: {ID: 2, Name: "New"}}
	if err := c.Save(second, nil, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotCats, _, _, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := gotCats[1]; ok {
		t.Fatal("stale entry survived a replace")
	}
	if gotCats[2].Name != "New" {
		t.Fatalf("categories = %#v", gotCats)
	}
}

func TestClear(t *testing.T) {
	c := openTest(t)

	if err := c.Save(
		map[int64]model.Category{1: {ID: 1, Name: "Work"}},
		map[int64][]model.NoteSummary{1: {{ID: 10, CategoryID: 1}}},
		map[int64][]model.TocItem{10: {{ID: 100}}},
	); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	gotCats, gotNotes, gotToc, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(gotCats) != 0 || len(gotNotes) != 0 || len(gotToc) != 0 {
		t.Fatal("cache not empty after Clear")
	}
}

func TestLoadEmptyCache(t *testing.T) {
	c := openTest(t)
	gotCats, gotNotes, gotToc, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(gotCats) != 0 || len(gotNotes) != 0 || len(gotToc) != 0 {
		t.Fatalf("fresh cache not empty: %v %v %v", gotCats, gotNotes, gotToc)
	}
}
