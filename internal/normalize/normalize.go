// Package normalize converts backend wire shapes (string-keyed maps, legacy
// field names) into the numeric-keyed maps the entity store holds. All
// functions are pure and safe to call repeatedly on the same input.
package normalize

import (
	"sort"
	"strconv"

	"mynote-cli/internal/api"
	"mynote-cli/internal/model"
)

// Nav builds the categoriesById and notesByCategoryId maps from a nav
// snapshot. Malformed entries are tolerated rather than rejected: nil
// categories and map keys that do not parse as integers are silently
// dropped. Categories are sorted ascending by id before the map is built so
// iteration over Keys stays deterministic.
func Nav(raw *api.NavSnapshot) (map[int64]model.Category, map[int64][]model.NoteSummary) {
	categories := make([]model.Category, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		// A zero id means the wire entry had a missing or malformed id
		// field (database ids start at 1); such an entry cannot be keyed
		// and is dropped with the other malformed shapes.
		if c == nil || c.ID == 0 {
			continue
		}
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	catMap := make(map[int64]model.Category, len(categories))
	for _, c := range categories {
		catMap[c.ID] = c
	}

	notesMap := make(map[int64][]model.NoteSummary, len(raw.NotesByCategory))
	for key, list := range raw.NotesByCategory {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		// Copy so the store never aliases wire-decoded slices.
		notesMap[id] = append([]model.NoteSummary(nil), list...)
	}

	return catMap, notesMap
}

// TocItems converts one note's wire TOC list, remapping startIndex/endIndex
// to page numbers and sorting ascending by IndexNumber.
func TocItems(wire []api.TocItemWire) []model.TocItem {
	items := make([]model.TocItem, 0, len(wire))
	for _, t := range wire {
		items = append(items, model.TocItem{
			ID:          t.ID,
			IndexNumber: t.IndexNumber,
			StartPage:   t.StartIndex,
			EndPage:     t.EndIndex,
			Title:       t.Title,
			Body:        t.Body,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].IndexNumber < items[j].IndexNumber })
	return items
}

// TocMap converts the full TOC wire map into the store's tocByNoteId shape.
// Keys that do not parse as integers are dropped, matching Nav.
func TocMap(raw map[string][]api.TocItemWire) map[int64][]model.TocItem {
	out := make(map[int64][]model.TocItem, len(raw))
	for key, list := range raw {
		noteID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out[noteID] = TocItems(list)
	}
	return out
}
