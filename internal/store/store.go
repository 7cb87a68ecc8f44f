// Package store holds the client's normalized entity state: the four keyed
// maps plus the selection and identity scalars. Published maps are treated
// as immutable; every write swaps in a freshly built value (whole-value
// replacement), which is what makes Snapshot/Publish and the TUI's
// identity-based change detection correct.
package store

import (
	"sync"

	"mynote-cli/internal/model"
)

type Store struct {
	mu sync.RWMutex

	categoriesByID    map[int64]model.Category
	notesByCategoryID map[int64][]model.NoteSummary
	tocByNoteID       map[int64][]model.TocItem
	noteDetailByID    map[int64]model.NoteDetail

	selectedCategoryID int64 // 0 = none
	selectedNoteID     int64 // 0 = none
	user               *model.LoginUser
	role               model.Role

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// Snapshot is the complete published state at one instant. Because maps are
// never mutated after publish, a snapshot is a set of aliases, not copies;
// restoring one reinstates every value verbatim.
type Snapshot struct {
	CategoriesByID     map[int64]model.Category
	NotesByCategoryID  map[int64][]model.NoteSummary
	TocByNoteID        map[int64][]model.TocItem
	NoteDetailByID     map[int64]model.NoteDetail
	SelectedCategoryID int64
	SelectedNoteID     int64
	User               *model.LoginUser
	Role               model.Role
}

func New() *Store {
	s := &Store{subs: map[int]func(){}}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.categoriesByID = map[int64]model.Category{}
	s.notesByCategoryID = map[int64][]model.NoteSummary{}
	s.tocByNoteID = map[int64][]model.TocItem{}
	s.noteDetailByID = map[int64]model.NoteDetail{}
	s.selectedCategoryID = 0
	s.selectedNoteID = 0
	s.user = nil
	s.role = model.RoleUser
}

// ResetAll restores every entry to its initial value. This is the only
// correct way to clear state on logout or account deletion; resetting keys
// piecemeal leaves the maps mutually inconsistent.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers a change listener fired after every publish. The
// returned func removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		CategoriesByID:     s.categoriesByID,
		NotesByCategoryID:  s.notesByCategoryID,
		TocByNoteID:        s.tocByNoteID,
		NoteDetailByID:     s.noteDetailByID,
		SelectedCategoryID: s.selectedCategoryID,
		SelectedNoteID:     s.selectedNoteID,
		User:               s.user,
		Role:               s.role,
	}
}

// Publish replaces the entire published state in one step. Mutations use it
// both for the optimistic apply (a snapshot they edited) and for rollback
// (the current snapshot with their own writes reverted).
func (s *Store) Publish(snap Snapshot) {
	s.mu.Lock()
	s.categoriesByID = snap.CategoriesByID
	s.notesByCategoryID = snap.NotesByCategoryID
	s.tocByNoteID = snap.TocByNoteID
	s.noteDetailByID = snap.NoteDetailByID
	s.selectedCategoryID = snap.SelectedCategoryID
	s.selectedNoteID = snap.SelectedNoteID
	s.user = snap.User
	s.role = snap.Role
	s.mu.Unlock()
	s.notify()
}

// Categories returns the published categoriesById map. Callers must treat
// it as read-only.
func (s *Store) Categories() map[int64]model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoriesByID
}

func (s *Store) SetCategories(m map[int64]model.Category) {
	s.mu.Lock()
	s.categoriesByID = m
	s.mu.Unlock()
	s.notify()
}

func (s *Store) NotesByCategory() map[int64][]model.NoteSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notesByCategoryID
}

func (s *Store) SetNotesByCategory(m map[int64][]model.NoteSummary) {
	s.mu.Lock()
	s.notesByCategoryID = m
	s.mu.Unlock()
	s.notify()
}

func (s *Store) TocByNote() map[int64][]model.TocItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tocByNoteID
}

func (s *Store) SetTocByNote(m map[int64][]model.TocItem) {
	s.mu.Lock()
	s.tocByNoteID = m
	s.mu.Unlock()
	s.notify()
}

func (s *Store) NoteDetails() map[int64]model.NoteDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noteDetailByID
}

func (s *Store) SetNoteDetails(m map[int64]model.NoteDetail) {
	s.mu.Lock()
	s.noteDetailByID = m
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SelectedCategoryID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedCategoryID
}

func (s *Store) SetSelectedCategoryID(id int64) {
	s.mu.Lock()
	s.selectedCategoryID = id
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SelectedNoteID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedNoteID
}

func (s *Store) SetSelectedNoteID(id int64) {
	s.mu.Lock()
	s.selectedNoteID = id
	s.mu.Unlock()
	s.notify()
}

func (s *Store) User() *model.LoginUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// SetUser publishes identity and role together; they always change as a pair
// (login, logout).
func (s *Store) SetUser(u *model.LoginUser, role model.Role) {
	s.mu.Lock()
	s.user = u
	s.role = role
	s.mu.Unlock()
	s.notify()
}

// ApplyNav replaces the navigation maps in one publish. This is a bulk
// replace, not a merge: entries absent from the new snapshot are gone.
func (s *Store) ApplyNav(categories map[int64]model.Category, notes map[int64][]model.NoteSummary) {
	s.mu.Lock()
	s.categoriesByID = categories
	s.notesByCategoryID = notes
	s.mu.Unlock()
	s.notify()
}

// Copy helpers for copy-on-write mutation: build a new map from a published
// one. They live here so every mutation copies the same way.

func CopyCategories(m map[int64]model.Category) map[int64]model.Category {
	out := make(map[int64]model.Category, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func CopyNotesByCategory(m map[int64][]model.NoteSummary) map[int64][]model.NoteSummary {
	out := make(map[int64][]model.NoteSummary, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func CopyTocByNote(m map[int64][]model.TocItem) map[int64][]model.TocItem {
	out := make(map[int64][]model.TocItem, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func CopyNoteDetails(m map[int64]model.NoteDetail) map[int64]model.NoteDetail {
	out := make(map[int64]model.NoteDetail, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
