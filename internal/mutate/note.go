package mutate

import (
	"context"
	"strings"

	"mynote-cli/internal/model"
	"mynote-cli/internal/store"
)

// RenameNoteTitle optimistically retitles a note. The title is written
// through to both places it is cached: the note's entry in the category
// list and, when present, the full detail projection. Empty or unchanged
// trimmed titles skip the network call entirely.
func RenameNoteTitle(ctx context.Context, st *store.Store, api API, categoryID, userSeqNo int64, newTitle string) error {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return ErrSkip
	}
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			list := snap.NotesByCategoryID[categoryID]
			idx := -1
			for i, n := range list {
				if n.UserSeqNo == userSeqNo {
					idx = i
					break
				}
			}
			if idx == -1 || list[idx].Title == title {
				return nil
			}
			prevTitle := list[idx].Title
			noteID := list[idx].ID
			_, hadDetail := snap.NoteDetailByID[noteID]

			next := snap

			notes := store.CopyNotesByCategory(snap.NotesByCategoryID)
			nextList := append([]model.NoteSummary(nil), list...)
			nextList[idx].Title = title
			notes[categoryID] = nextList
			next.NotesByCategoryID = notes

			if detail, ok := snap.NoteDetailByID[noteID]; ok {
				details := store.CopyNoteDetails(snap.NoteDetailByID)
				detail.Title = title
				details[noteID] = detail
				next.NoteDetailByID = details
			}

			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				if list := cur.NotesByCategoryID[categoryID]; len(list) > 0 {
					for i, n := range list {
						if n.UserSeqNo != userSeqNo {
							continue
						}
						notes := store.CopyNotesByCategory(cur.NotesByCategoryID)
						nextList := append([]model.NoteSummary(nil), list...)
						nextList[i].Title = prevTitle
						notes[categoryID] = nextList
						cur.NotesByCategoryID = notes
						break
					}
				}
				if hadDetail {
					if detail, ok := cur.NoteDetailByID[noteID]; ok {
						details := store.CopyNoteDetails(cur.NoteDetailByID)
						detail.Title = prevTitle
						details[noteID] = detail
						cur.NoteDetailByID = details
					}
				}
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.RenameNoteTitle(ctx, userSeqNo, title)
		})
}

// DeleteNote optimistically removes a note from its category list and drops
// its TOC and detail cache entries. A selection pointing at the note is
// cleared in the same step.
func DeleteNote(ctx context.Context, st *store.Store, api API, userSeqNo int64) error {
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			var removed model.NoteSummary
			var categoryID int64
			idx := -1
			for catID, list := range snap.NotesByCategoryID {
				for i, n := range list {
					if n.UserSeqNo == userSeqNo {
						removed = n
						categoryID = catID
						idx = i
						break
					}
				}
				if idx != -1 {
					break
				}
			}
			if idx == -1 {
				return nil
			}
			noteID := removed.ID
			prevToc, hadToc := snap.TocByNoteID[noteID]
			prevDetail, hadDetail := snap.NoteDetailByID[noteID]
			clearedSelection := snap.SelectedNoteID == noteID

			next := snap

			notes := store.CopyNotesByCategory(snap.NotesByCategoryID)
			list := snap.NotesByCategoryID[categoryID]
			filtered := make([]model.NoteSummary, 0, len(list)-1)
			for _, n := range list {
				if n.UserSeqNo != userSeqNo {
					filtered = append(filtered, n)
				}
			}
			notes[categoryID] = filtered
			next.NotesByCategoryID = notes

			toc := store.CopyTocByNote(snap.TocByNoteID)
			delete(toc, noteID)
			next.TocByNoteID = toc

			details := store.CopyNoteDetails(snap.NoteDetailByID)
			delete(details, noteID)
			next.NoteDetailByID = details

			if clearedSelection {
				next.SelectedNoteID = 0
			}

			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				notes := store.CopyNotesByCategory(cur.NotesByCategoryID)
				list := cur.NotesByCategoryID[categoryID]
				at := idx
				if at > len(list) {
					at = len(list)
				}
				nextList := make([]model.NoteSummary, 0, len(list)+1)
				nextList = append(nextList, list[:at]...)
				nextList = append(nextList, removed)
				nextList = append(nextList, list[at:]...)
				notes[categoryID] = nextList
				cur.NotesByCategoryID = notes

				if hadToc {
					toc := store.CopyTocByNote(cur.TocByNoteID)
					toc[noteID] = prevToc
					cur.TocByNoteID = toc
				}
				if hadDetail {
					details := store.CopyNoteDetails(cur.NoteDetailByID)
					details[noteID] = prevDetail
					cur.NoteDetailByID = details
				}
				if clearedSelection && cur.SelectedNoteID == 0 {
					cur.SelectedNoteID = snap.SelectedNoteID
				}
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.DeleteNote(ctx, userSeqNo)
		})
}
