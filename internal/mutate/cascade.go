package mutate

import "mynote-cli/internal/store"

// CascadeResult describes the secondary removals a category delete implies,
// computed from a snapshot so it is independent of network timing.
type CascadeResult struct {
	RemovedNoteIDs []int64

	// Selection scalars that become invalid and must be cleared in the same
	// optimistic step (and restored on rollback).
	ClearSelectedCategory bool
	ClearSelectedNote     bool
}

// Cascade computes the full fallout of deleting categoryID: every owned
// note id (which keys the TOC and detail maps) and whether the current
// selections are invalidated.
func Cascade(snap store.Snapshot, categoryID int64) CascadeResult {
	var res CascadeResult
	for _, n := range snap.NotesByCategoryID[categoryID] {
		res.RemovedNoteIDs = append(res.RemovedNoteIDs, n.ID)
		if snap.SelectedNoteID != 0 && snap.SelectedNoteID == n.ID {
			res.ClearSelectedNote = true
		}
	}
	if snap.SelectedCategoryID == categoryID {
		res.ClearSelectedCategory = true
	}
	return res
}
