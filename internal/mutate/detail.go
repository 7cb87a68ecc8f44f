package mutate

import (
	"context"
	"strings"

	"mynote-cli/internal/model"
	"mynote-cli/internal/store"
)

// detailByUserSeqNo finds a cached detail entry by its per-user sequence
// number. Returns the note id key and ok.
func detailByUserSeqNo(snap store.Snapshot, userSeqNo int64) (int64, model.NoteDetail, bool) {
	for id, d := range snap.NoteDetailByID {
		if d.UserSeqNo == userSeqNo {
			return id, d, true
		}
	}
	return 0, model.NoteDetail{}, false
}

// UpdateNoteDescription optimistically rewrites a note's description in the
// cached detail. Unchanged input is a no-op; an uncached detail still issues
// the call (there is nothing local to update or roll back).
func UpdateNoteDescription(ctx context.Context, st *store.Store, api API, userSeqNo int64, newDescription string) error {
	description := strings.TrimSpace(newDescription)
	if description == "" {
		return ErrSkip
	}
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			id, detail, ok := detailByUserSeqNo(snap, userSeqNo)
			if !ok {
				// Nothing cached locally; the call still goes out and there
				// is nothing to revert.
				return revertNothing
			}
			if detail.Description == description {
				return nil
			}
			prev := detail.Description
			next := snap
			details := store.CopyNoteDetails(snap.NoteDetailByID)
			detail.Description = description
			details[id] = detail
			next.NoteDetailByID = details
			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				if detail, ok := cur.NoteDetailByID[id]; ok {
					details := store.CopyNoteDetails(cur.NoteDetailByID)
					detail.Description = prev
					details[id] = detail
					cur.NoteDetailByID = details
				}
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.UpdateNoteDescription(ctx, userSeqNo, description)
		})
}

// editToc rewrites one TOC item in both caches that hold it (tocByNoteId and
// the detail projection), keeping each list sorted order intact since only
// title/body change. The returned revert writes the item's previous value
// back wherever the entry still exists.
func editToc(snap store.Snapshot, st *store.Store, noteID, tocID int64, edit func(*model.TocItem)) revertFunc {
	next := snap
	var prevListItem, prevDetailItem model.TocItem
	changedList, changedDetail := false, false

	if list, ok := snap.TocByNoteID[noteID]; ok {
		for i, t := range list {
			if t.ID != tocID {
				continue
			}
			nextList := append([]model.TocItem(nil), list...)
			edit(&nextList[i])
			if nextList[i] != t {
				toc := store.CopyTocByNote(snap.TocByNoteID)
				toc[noteID] = nextList
				next.TocByNoteID = toc
				prevListItem = t
				changedList = true
			}
			break
		}
	}

	if detail, ok := snap.NoteDetailByID[noteID]; ok {
		for i, t := range detail.TocItems {
			if t.ID != tocID {
				continue
			}
			items := append([]model.TocItem(nil), detail.TocItems...)
			edit(&items[i])
			if items[i] != t {
				details := store.CopyNoteDetails(snap.NoteDetailByID)
				detail.TocItems = items
				details[noteID] = detail
				next.NoteDetailByID = details
				prevDetailItem = t
				changedDetail = true
			}
			break
		}
	}

	if !changedList && !changedDetail {
		return nil
	}
	st.Publish(next)
	return func(cur store.Snapshot) store.Snapshot {
		if changedList {
			if list, ok := cur.TocByNoteID[noteID]; ok {
				for i, t := range list {
					if t.ID != tocID {
						continue
					}
					nextList := append([]model.TocItem(nil), list...)
					nextList[i] = prevListItem
					toc := store.CopyTocByNote(cur.TocByNoteID)
					toc[noteID] = nextList
					cur.TocByNoteID = toc
					break
				}
			}
		}
		if changedDetail {
			if detail, ok := cur.NoteDetailByID[noteID]; ok {
				for i, t := range detail.TocItems {
					if t.ID != tocID {
						continue
					}
					items := append([]model.TocItem(nil), detail.TocItems...)
					items[i] = prevDetailItem
					details := store.CopyNoteDetails(cur.NoteDetailByID)
					detail.TocItems = items
					details[noteID] = detail
					cur.NoteDetailByID = details
					break
				}
			}
		}
		return cur
	}
}

// RenameTocTitle optimistically retitles one TOC entry of a note.
func RenameTocTitle(ctx context.Context, st *store.Store, api API, noteID, tocID int64, newTitle string) error {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return ErrSkip
	}
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			return editToc(snap, st, noteID, tocID, func(t *model.TocItem) { t.Title = title })
		},
		func(ctx context.Context) error {
			return api.RenameTocTitle(ctx, tocID, title)
		})
}

// UpdateTocBody optimistically rewrites one TOC entry's body text. Empty
// bodies are allowed (clearing is a legitimate edit); only an unchanged
// value skips.
func UpdateTocBody(ctx context.Context, st *store.Store, api API, noteID, tocID int64, newBody string) error {
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			return editToc(snap, st, noteID, tocID, func(t *model.TocItem) { t.Body = newBody })
		},
		func(ctx context.Context) error {
			return api.UpdateTocBody(ctx, tocID, newBody)
		})
}

// UpdatePageText optimistically rewrites a page's extracted text in the
// cached detail projection.
func UpdatePageText(ctx context.Context, st *store.Store, api API, noteID, pageID int64, newText string) error {
	return run(ctx, st,
		func(snap store.Snapshot) revertFunc {
			detail, ok := snap.NoteDetailByID[noteID]
			if !ok {
				return revertNothing
			}
			idx := -1
			for i, p := range detail.PageItems {
				if p.ID == pageID {
					idx = i
					break
				}
			}
			if idx == -1 || detail.PageItems[idx].ExtractedText == newText {
				return nil
			}
			prev := detail.PageItems[idx].ExtractedText
			next := snap
			pages := append([]model.PageItem(nil), detail.PageItems...)
			pages[idx].ExtractedText = newText
			details := store.CopyNoteDetails(snap.NoteDetailByID)
			detail.PageItems = pages
			details[noteID] = detail
			next.NoteDetailByID = details
			st.Publish(next)
			return func(cur store.Snapshot) store.Snapshot {
				detail, ok := cur.NoteDetailByID[noteID]
				if !ok {
					return cur
				}
				for i, p := range detail.PageItems {
					if p.ID != pageID {
						continue
					}
					pages := append([]model.PageItem(nil), detail.PageItems...)
					pages[i].ExtractedText = prev
					details := store.CopyNoteDetails(cur.NoteDetailByID)
					detail.PageItems = pages
					details[noteID] = detail
					cur.NoteDetailByID = details
					break
				}
				return cur
			}
		},
		func(ctx context.Context) error {
			return api.UpdatePageText(ctx, pageID, newText)
		})
}
