package mutate

import (
	"context"
	"strings"

	"mynote-cli/internal/model"
	"mynote-cli/internal/store"
)

// RenameCategory optimistically renames a category. Empty or unchanged
// trimmed names, and unknown ids, are silent no-ops (ErrSkip).
func RenameCategory(ctx context.Context, st *store.Store, api API, categoryID int64, newName string) error {
	name := strings.TrimSpace(newName)
	if name == "" {
		return ErrSkip
	}
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			prev, ok := snap.CategoriesByID[categoryID]
			if !ok || prev.Name == name {
				return nil
			}
			next := snap
			cats := store.CopyCategories(snap.CategoriesByID)
			renamed := prev
			renamed.Name = name
			cats[categoryID] = renamed
			next.CategoriesByID = cats
			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				cats := store.CopyCategories(cur.CategoriesByID)
				cats[categoryID] = prev
				cur.CategoriesByID = cats
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.RenameCategory(ctx, categoryID, name)
		})
}

// DeleteCategory removes a category and cascades: the category entry, its
// notes list, and every owned note's TOC/detail cache entry go in one
// optimistic publish; invalidated selections are cleared in the same step.
// Rollback reinstates all of it.
func DeleteCategory(ctx context.Context, st *store.Store, api API, categoryID int64) error {
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			prevCat, ok := snap.CategoriesByID[categoryID]
			if !ok {
				return nil
			}
			cascade := Cascade(snap, categoryID)
			prevNotes, hadNotes := snap.NotesByCategoryID[categoryID]
			prevToc := map[int64][]model.TocItem{}
			prevDetails := map[int64]model.NoteDetail{}
			for _, noteID := range cascade.RemovedNoteIDs {
				if t, ok := snap.TocByNoteID[noteID]; ok {
					prevToc[noteID] = t
				}
				if d, ok := snap.NoteDetailByID[noteID]; ok {
					prevDetails[noteID] = d
				}
			}

			next := snap

			cats := store.CopyCategories(snap.CategoriesByID)
			delete(cats, categoryID)
			next.CategoriesByID = cats

			notes := store.CopyNotesByCategory(snap.NotesByCategoryID)
			delete(notes, categoryID)
			next.NotesByCategoryID = notes

			toc := store.CopyTocByNote(snap.TocByNoteID)
			details := store.CopyNoteDetails(snap.NoteDetailByID)
			for _, noteID := range cascade.RemovedNoteIDs {
				delete(toc, noteID)
				delete(details, noteID)
			}
			next.TocByNoteID = toc
			next.NoteDetailByID = details

			if cascade.ClearSelectedCategory {
				next.SelectedCategoryID = 0
			}
			if cascade.ClearSelectedNote {
				next.SelectedNoteID = 0
			}

			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				cats := store.CopyCategories(cur.CategoriesByID)
				cats[categoryID] = prevCat
				cur.CategoriesByID = cats

				if hadNotes {
					notes := store.CopyNotesByCategory(cur.NotesByCategoryID)
					notes[categoryID] = prevNotes
					cur.NotesByCategoryID = notes
				}
				if len(prevToc) > 0 {
					toc := store.CopyTocByNote(cur.TocByNoteID)
					for id, v := range prevToc {
						toc[id] = v
					}
					cur.TocByNoteID = toc
				}
				if len(prevDetails) > 0 {
					details := store.CopyNoteDetails(cur.NoteDetailByID)
					for id, v := range prevDetails {
						details[id] = v
					}
					cur.NoteDetailByID = details
				}
				// Reinstate a selection only if it is still cleared; a new
				// selection made mid-flight wins.
				if cascade.ClearSelectedCategory && cur.SelectedCategoryID == 0 {
					cur.SelectedCategoryID = snap.SelectedCategoryID
				}
				if cascade.ClearSelectedNote && cur.SelectedNoteID == 0 {
					cur.SelectedNoteID = snap.SelectedNoteID
				}
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.DeleteCategory(ctx, categoryID)
		})
}
