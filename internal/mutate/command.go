// Package mutate implements the client's optimistic mutations: each command
// applies its effect to the store immediately, then issues the server call,
// and on failure puts back exactly the values it wrote. Rollback is scoped
// to the command's own writes, so edits on other entities that commit while
// the call is in flight are left standing.
package mutate

import (
	"context"

	"mynote-cli/internal/store"
)

// API is the slice of the backend client the mutation commands need.
// Defined here so tests can substitute a fake.
type API interface {
	RenameCategory(ctx context.Context, categoryID int64, name string) error
	DeleteCategory(ctx context.Context, categoryID int64) error
	RenameNoteTitle(ctx context.Context, userSeqNo int64, title string) error
	DeleteNote(ctx context.Context, userSeqNo int64) error
	UpdateNoteDescription(ctx context.Context, userSeqNo int64, description string) error
	RenameTocTitle(ctx context.Context, tocID int64, title string) error
	UpdateTocBody(ctx context.Context, tocID int64, body string) error
	UpdatePageText(ctx context.Context, pageID int64, text string) error
}

// revertFunc undoes one command's optimistic writes. It receives the state
// current at failure time and returns it with only the values the command
// wrote put back; everything else in the snapshot is passed through, so a
// write that committed on another entity mid-flight survives the rollback.
type revertFunc func(store.Snapshot) store.Snapshot

// revertNothing is the revert for a command that wrote no local state but
// still needs the network call to go out.
var revertNothing revertFunc = func(cur store.Snapshot) store.Snapshot { return cur }

// run is the shared optimistic-command skeleton. apply receives the
// pre-mutation snapshot, publishes the optimistic state, and returns the
// revert for the values it wrote; returning nil short-circuits to ErrSkip
// with no network call. If call fails, run publishes the reverted state.
func run(ctx context.Context, st *store.Store, apply func(snap store.Snapshot) revertFunc, call func(ctx context.Context) error) error {
	revert := apply(st.Snapshot())
	if revert == nil {
		return ErrSkip
	}
	if err := call(ctx); err != nil {
		st.Publish(revert(st.Snapshot()))
		return err
	}
	// Success keeps the optimistic state; no second write.
	return nil
}
