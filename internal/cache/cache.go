// Package cache persists the last applied nav/TOC snapshot in a local
// sqlite file so the TUI can show something before the first network
// round-trip. It holds derived data only: mutations never read from or
// write through it, and every save replaces the previous contents.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"mynote-cli/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY,
    user_id     INTEGER NOT NULL,
    name        TEXT NOT NULL,
    note_count  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
    id          INTEGER PRIMARY KEY,
    user_id     INTEGER NOT NULL,
    category_id INTEGER NOT NULL,
    user_seq_no INTEGER NOT NULL,
    title       TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS toc_items (
    id           INTEGER PRIMARY KEY,
    note_id      INTEGER NOT NULL,
    index_number INTEGER NOT NULL,
    start_page   INTEGER NOT NULL,
    end_page     INTEGER NOT NULL,
    title        TEXT NOT NULL,
    body         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id);
CREATE INDEX IF NOT EXISTS idx_toc_note ON toc_items(note_id);
`

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Save replaces the cached snapshot in one transaction.
func (c *Cache) Save(categories map[int64]model.Category, notes map[int64][]model.NoteSummary, toc map[int64][]model.TocItem) error {
	ctx := context.Background()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"categories", "notes", "toc_items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, cat := range categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, user_id, name, note_count) VALUES (?, ?, ?, ?)",
			cat.ID, cat.UserID, cat.Name, cat.NoteCount); err != nil {
			return err
		}
	}
	for _, list := range notes {
		for _, n := range list {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO notes (id, user_id, category_id, user_seq_no, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				n.ID, n.UserID, n.CategoryID, n.UserSeqNo, n.Title,
				n.CreatedAt.Format(time.RFC3339), n.UpdatedAt.Format(time.RFC3339)); err != nil {
				return err
			}
		}
	}
	for noteID, items := range toc {
		for _, t := range items {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO toc_items (id, note_id, index_number, start_page, end_page, title, body) VALUES (?, ?, ?, ?, ?, ?, ?)",
				t.ID, noteID, t.IndexNumber, t.StartPage, t.EndPage, t.Title, t.Body); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds the normalized maps from the cached snapshot. TOC lists
// come back sorted by index number, matching the store invariant.
func (c *Cache) Load() (map[int64]model.Category, map[int64][]model.NoteSummary, map[int64][]model.TocItem, error) {
	categories := map[int64]model.Category{}
	rows, err := c.db.Query("SELECT id, user_id, name, note_count FROM categories")
	if err != nil {
		return nil, nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.NoteCount); err != nil {
			return nil, nil, nil, err
		}
		categories[cat.ID] = cat
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	notes := map[int64][]model.NoteSummary{}
	noteRows, err := c.db.Query("SELECT id, user_id, category_id, user_seq_no, title, created_at, updated_at FROM notes")
	if err != nil {
		return nil, nil, nil, err
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var n model.NoteSummary
		var created, updated string
		if err := noteRows.Scan(&n.ID, &n.UserID, &n.CategoryID, &n.UserSeqNo, &n.Title, &created, &updated); err != nil {
			return nil, nil, nil, err
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339, created)
		n.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		notes[n.CategoryID] = append(notes[n.CategoryID], n)
	}
	if err := noteRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	toc := map[int64][]model.TocItem{}
	tocRows, err := c.db.Query("SELECT id, note_id, index_number, start_page, end_page, title, body FROM toc_items")
	if err != nil {
		return nil, nil, nil, err
	}
	defer tocRows.Close()
	for tocRows.Next() {
		var t model.TocItem
		var noteID int64
		if err := tocRows.Scan(&t.ID, &noteID, &t.IndexNumber, &t.StartPage, &t.EndPage, &t.Title, &t.Body); err != nil {
			return nil, nil, nil, err
		}
		toc[noteID] = append(toc[noteID], t)
	}
	if err := tocRows.Err(); err != nil {
		return nil, nil, nil, err
	}
	for noteID := range toc {
		items := toc[noteID]
		sort.Slice(items, func(i, j int) bool { return items[i].IndexNumber < items[j].IndexNumber })
		toc[noteID] = items
	}

	return categories, notes, toc, nil
}

// Clear empties the cache, used on logout and account deletion.
func (c *Cache) Clear() error {
	for _, table := range []string{"categories", "notes", "toc_items"} {
		if _, err := c.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}
