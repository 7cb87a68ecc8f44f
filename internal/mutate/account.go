package mutate

import (
	"context"

	"mynote-cli/internal/store"
)

// AccountAPI is the client slice account deletion needs.
type AccountAPI interface {
	DeleteAccount(ctx context.Context) error
}

// DeleteAccount removes the authenticated user server-side, then clears the
// entire store. Unlike the other commands this is not optimistic: the local
// state is only wiped after the server confirms, since there is no
// meaningful rollback from a half-deleted account.
func DeleteAccount(ctx context.Context, st *store.Store, api AccountAPI) error {
	if err := api.DeleteAccount(ctx); err != nil {
		return err
	}
	st.ResetAll()
	return nil
}
