// Package nav loads navigation state (categories, notes, TOC) from the
// backend and applies it to the entity store. Application is always a bulk
// replace through the normalizers, never a merge.
package nav

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mynote-cli/internal/api"
	"mynote-cli/internal/logger"
	"mynote-cli/internal/model"
	"mynote-cli/internal/normalize"
	"mynote-cli/internal/store"
)

// API is the client slice the refresher needs; tests substitute a fake.
type API interface {
	FetchNav(ctx context.Context, userID int64) (*api.NavSnapshot, error)
	FetchTocMap(ctx context.Context) (map[string][]api.TocItemWire, error)
	FetchNoteDetail(ctx context.Context, userSeqNo int64) (model.NoteDetail, []api.TocItemWire, error)
	Logout(ctx context.Context) error
}

// Cache persists the last applied snapshot for offline startup. Optional;
// a nil cache disables persistence.
type Cache interface {
	Save(categories map[int64]model.Category, notes map[int64][]model.NoteSummary, toc map[int64][]model.TocItem) error
	Load() (map[int64]model.Category, map[int64][]model.NoteSummary, map[int64][]model.TocItem, error)
	Clear() error
}

type Refresher struct {
	API   API
	Store *store.Store
	Cache Cache
}

type Options struct {
	UserID int64
	Nav    bool
	Toc    bool
}

// Refresh fetches and applies the requested snapshots. The nav fetch is
// required: its failure aborts the refresh with nothing applied. The TOC
// fetch commits independently; when nav was also requested its failure is
// only logged so a working nav application is never rolled back by a
// best-effort companion.
func (r *Refresher) Refresh(ctx context.Context, opts Options) error {
	if opts.Nav {
		snap, err := r.API.FetchNav(ctx, opts.UserID)
		if err != nil {
			return fmt.Errorf("refresh nav: %w", err)
		}
		categories, notes := normalize.Nav(snap)
		r.Store.ApplyNav(categories, notes)
	}

	if opts.Toc {
		raw, err := r.API.FetchTocMap(ctx)
		if err != nil {
			if opts.Nav {
				logger.Warn("toc refresh failed; keeping nav", map[string]interface{}{"error": err.Error()})
				r.persist()
				return nil
			}
			return fmt.Errorf("refresh toc: %w", err)
		}
		r.Store.SetTocByNote(normalize.TocMap(raw))
	}

	r.persist()
	return nil
}

// ApplyLogin installs a login response: identity, role, and the embedded
// nav snapshot, followed by a best-effort TOC preload.
func (r *Refresher) ApplyLogin(ctx context.Context, raw *api.RawLogin) error {
	userID, err := raw.UserID.Int64()
	if err != nil {
		return fmt.Errorf("login response: bad userId %q: %w", raw.UserID.String(), err)
	}
	role := raw.Role
	if role == "" {
		role = model.RoleUser
	}
	r.Store.SetUser(&model.LoginUser{UserID: userID, UserName: raw.UserName, Token: raw.Token}, role)

	categories, notes := normalize.Nav(&raw.Nav)
	r.Store.ApplyNav(categories, notes)

	if rawToc, err := r.API.FetchTocMap(ctx); err != nil {
		logger.Warn("toc preload failed", map[string]interface{}{"error": err.Error()})
	} else {
		r.Store.SetTocByNote(normalize.TocMap(rawToc))
	}

	r.persist()
	return nil
}

// LoadCached seeds the store from the offline cache. Used before the first
// network round-trip; a missing or empty cache is not an error.
func (r *Refresher) LoadCached() error {
	if r.Cache == nil {
		return nil
	}
	categories, notes, toc, err := r.Cache.Load()
	if err != nil {
		return err
	}
	if len(categories) == 0 && len(notes) == 0 {
		return nil
	}
	r.Store.ApplyNav(categories, notes)
	r.Store.SetTocByNote(toc)
	return nil
}

// Logout tears the session down: best-effort server logout, then a full
// store reset and cache wipe. Server failure never blocks the local reset.
func (r *Refresher) Logout(ctx context.Context) {
	if err := r.API.Logout(ctx); err != nil {
		logger.Warn("server logout failed", map[string]interface{}{"error": err.Error()})
	}
	r.Store.ResetAll()
	if r.Cache != nil {
		if err := r.Cache.Clear(); err != nil {
			logger.Warn("cache clear failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// FetchDetail fetches one note's detail by its per-user sequence number and
// applies it to the store (detail projection plus the TOC map entry).
func (r *Refresher) FetchDetail(ctx context.Context, userSeqNo int64) (model.NoteDetail, error) {
	detail, toc, err := r.API.FetchNoteDetail(ctx, userSeqNo)
	if err != nil {
		return model.NoteDetail{}, err
	}
	detail.TocItems = normalize.TocItems(toc)

	details := store.CopyNoteDetails(r.Store.NoteDetails())
	details[detail.ID] = detail
	r.Store.SetNoteDetails(details)

	tocMap := store.CopyTocByNote(r.Store.TocByNote())
	tocMap[detail.ID] = detail.TocItems
	r.Store.SetTocByNote(tocMap)
	return detail, nil
}

// PrefetchDetails warms the note detail cache with up to `parallel`
// concurrent fetches. Individual failures are logged; the successful
// fetches are applied in one publish and the first error is returned.
func (r *Refresher) PrefetchDetails(ctx context.Context, parallel int) error {
	if parallel <= 0 {
		parallel = 4
	}
	snap := r.Store.Snapshot()

	var targets []model.NoteSummary
	for _, list := range snap.NotesByCategoryID {
		for _, n := range list {
			if _, ok := snap.NoteDetailByID[n.ID]; !ok {
				targets = append(targets, n)
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	fetched := make([]model.NoteDetail, len(targets))
	ok := make([]bool, len(targets))

	var mu sync.Mutex
	var firstErr error

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, n := range targets {
		g.Go(func() error {
			detail, toc, err := r.API.FetchNoteDetail(ctx, n.UserSeqNo)
			if err != nil {
				logger.Warn("detail prefetch failed", map[string]interface{}{
					"userSeqNo": n.UserSeqNo, "error": err.Error(),
				})
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			detail.TocItems = normalize.TocItems(toc)
			fetched[i] = detail
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	details := store.CopyNoteDetails(r.Store.NoteDetails())
	applied := 0
	for i := range fetched {
		if ok[i] {
			details[fetched[i].ID] = fetched[i]
			applied++
		}
	}
	if applied > 0 {
		r.Store.SetNoteDetails(details)
	}
	return firstErr
}

func (r *Refresher) persist() {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Save(r.Store.Categories(), r.Store.NotesByCategory(), r.Store.TocByNote()); err != nil {
		logger.Warn("cache save failed", map[string]interface{}{"error": err.Error()})
	}
}
