package nav

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"mynote-cli/internal/api"
	"mynote-cli/internal/model"
	"mynote-cli/internal/store"
)

type fakeAPI struct {
	mu sync.Mutex

	nav       *api.NavSnapshot
	navErr    error
	toc       map[string][]api.TocItemWire
	tocErr    error
	details   map[int64]model.NoteDetail
	detailErr error
	logoutErr error

	navCalls    int
	tocCalls    int
	detailCalls []int64
	logoutCalls int
}

func (f *fakeAPI) FetchNav(ctx context.Context, userID int64) (*api.NavSnapshot, error) {
	f.mu.Lock()
	f.navCalls++
	f.mu.Unlock()
	return f.nav, f.navErr
}

func (f *fakeAPI) FetchTocMap(ctx context.Context) (map[string][]api.TocItemWire, error) {
	f.mu.Lock()
	f.tocCalls++
	f.mu.Unlock()
	return f.toc, f.tocErr
}

func (f *fakeAPI) FetchNoteDetail(ctx context.Context, userSeqNo int64) (model.NoteDetail, []api.TocItemWire, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, userSeqNo)
	f.mu.Unlock()
	if f.detailErr != nil {
		return model.NoteDetail{}, nil, f.detailErr
	}
	d, ok := f.details[userSeqNo]
	if !ok {
		return model.NoteDetail{}, nil, errors.New("no such note")
	}
	return d, []api.TocItemWire{{ID: 100, IndexNumber: 1, Title: "Intro"}}, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()
	return f.logoutErr
}

type memCache struct {
	categories map[int64]model.Category
	notes      map[int64][]model.NoteSummary
	toc        map[int64][]model.TocItem
	saves      int
	clears     int
}

func (c *memCache) Save(categories map[int64]model.Category, notes map[int64][]model.NoteSummary, toc map[int64][]model.TocItem) error {
	c.categories, c.notes, c.toc = categories, notes, toc
	c.saves++
	return nil
}

func (c *memCache) Load() (map[int64]model.Category, map[int64][]model.NoteSummary, map[int64][]model.TocItem, error) {
	return c.categories, c.notes, c.toc, nil
}

func (c *memCache) Clear() error {
	c.categories, c.notes, c.toc = nil, nil, nil
	c.clears++
	return nil
}

func testNav() *api.NavSnapshot {
	return &api.NavSnapshot{
		Categories: map[string]*model.Category{
			"1": {ID: 1, Name: "Work", NoteCount: 1},
		},
		NotesByCategory: map[string][]model.NoteSummary{
			"1": {{ID: 10, CategoryID: 1, UserSeqNo: 3, Title: "Compilers"}},
		},
	}
}

func TestRefreshAppliesNavAndToc(t *testing.T) {
	apiFake := &fakeAPI{
		nav: testNav(),
		toc: map[string][]api.TocItemWire{
			"10": {{ID: 100, IndexNumber: 1, StartIndex: 1, EndIndex: 5, Title: "Intro"}},
		},
	}
	st := store.New()
	cache := &memCache{}
	r := &Refresher{API: apiFake, Store: st, Cache: cache}

	if err := r.Refresh(context.Background(), Options{UserID: 7, Nav: true, Toc: true}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if st.Categories()[1].Name != "Work" {
		t.Fatalf("categories = %#v", st.Categories())
	}
	if st.TocByNote()[10][0].StartPage != 1 {
		t.Fatalf("toc = %#v", st.TocByNote())
	}
	if cache.saves != 1 {
		t.Fatalf("cache saves = %d", cache.saves)
	}
}

func TestRefreshNavFailureAppliesNothing(t *testing.T) {
	apiFake := &fakeAPI{navErr: errors.New("boom"), toc: map[string][]api.TocItemWire{}}
	st := store.New()
	st.SetCategories(map[int64]model.Category{9: {ID: 9, Name: "Old"}})
	r := &Refresher{API: apiFake, Store: st}

	if err := r.Refresh(context.Background(), Options{UserID: 7, Nav: true, Toc: true}); err == nil {
		t.Fatal("want error")
	}
	if st.Categories()[9].Name != "Old" {
		t.Fatal("store touched despite nav failure")
	}
	if apiFake.tocCalls != 0 {
		t.Fatal("toc fetched after nav failure")
	}
}

func TestRefreshTocFailureIsBestEffortAlongsideNav(t *testing.T) {
	apiFake := &fakeAPI{nav: testNav(), tocErr: errors.New("boom")}
	st := store.New()
	r := &Refresher{API: apiFake, Store: st}

	// Nav applied, TOC failure swallowed.
	if err := r.Refresh(context.Background(), Options{UserID: 7, Nav: true, Toc: true}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if st.Categories()[1].Name != "Work" {
		t.Fatal("nav not applied")
	}
}

func TestRefreshTocOnlyFailureIsAnError(t *testing.T) {
	apiFake := &fakeAPI{tocErr: errors.New("boom")}
	r := &Refresher{API: apiFake, Store: store.New()}

	if err := r.Refresh(context.Background(), Options{UserID: 7, Toc: true}); err == nil {
		t.Fatal("want error")
	}
}

func TestApplyLogin(t *testing.T) {
	apiFake := &fakeAPI{toc: map[string][]api.TocItemWire{}}
	st := store.New()
	r := &Refresher{API: apiFake, Store: st}

	raw := &api.RawLogin{
		UserName: "alice",
		UserID:   json.Number("7"),
		Token:    "tok",
		Nav:      *testNav(),
	}
	if err := r.ApplyLogin(context.Background(), raw); err != nil {
		t.Fatalf("ApplyLogin: %v", err)
	}
	u := st.User()
	if u == nil || u.UserID != 7 || u.UserName != "alice" {
		t.Fatalf("user = %+v", u)
	}
	// Role defaults to USER when the response omits it.
	if st.Role() != model.RoleUser {
		t.Fatalf("role = %q", st.Role())
	}
	if st.Categories()[1].Name != "Work" {
		t.Fatal("embedded nav not applied")
	}
}

func TestApplyLoginBadUserID(t *testing.T) {
	r := &Refresher{API: &fakeAPI{}, Store: store.New()}
	raw := &api.RawLogin{UserID: json.Number("abc")}
	if err := r.ApplyLogin(context.Background(), raw); err == nil {
		t.Fatal("want error")
	}
}

func TestLogoutResetsEvenWhenServerFails(t *testing.T) {
	apiFake := &fakeAPI{logoutErr: errors.New("boom")}
	st := store.New()
	st.SetCategories(map[int64]model.Category{1: {ID: 1}})
	cache := &memCache{categories: map[int64]model.Category{1: {ID: 1}}}
	r := &Refresher{API: apiFake, Store: st, Cache: cache}

	r.Logout(context.Background())

	if apiFake.logoutCalls != 1 {
		t.Fatal("server logout not attempted")
	}
	if len(st.Categories()) != 0 {
		t.Fatal("store not reset")
	}
	if cache.clears != 1 {
		t.Fatal("cache not cleared")
	}
}

func TestLoadCached(t *testing.T) {
	cache := &memCache{
		categories: map[int64]model.Category{1: {ID: 1, Name: "Work"}},
		notes:      map[int64][]model.NoteSummary{1: {{ID: 10, UserSeqNo: 3}}},
		toc:        map[int64][]model.TocItem{10: {{ID: 100, Title: "Intro"}}},
	}
	st := store.New()
	r := &Refresher{API: &fakeAPI{}, Store: st, Cache: cache}

	if err := r.LoadCached(); err != nil {
		t.Fatalf("LoadCached: %v", err)
	}
	if st.Categories()[1].Name != "Work" || len(st.TocByNote()[10]) != 1 {
		t.Fatal("cache not applied")
	}

	// Nil cache and empty cache are both quiet no-ops.
	r2 := &Refresher{API: &fakeAPI{}, Store: store.New()}
	if err := r2.LoadCached(); err != nil {
		t.Fatalf("nil cache: %v", err)
	}
}

func TestFetchDetailAppliesBothProjections(t *testing.T) {
	apiFake := &fakeAPI{
		details: map[int64]model.NoteDetail{
			3: {ID: 10, UserSeqNo: 3, Title: "Compilers"},
		},
	}
	st := store.New()
	r := &Refresher{API: apiFake, Store: st}

	detail, err := r.FetchDetail(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if detail.ID != 10 {
		t.Fatalf("detail = %+v", detail)
	}
	if st.NoteDetails()[10].Title != "Compilers" {
		t.Fatal("detail not stored")
	}
	if len(st.TocByNote()[10]) != 1 {
		t.Fatal("toc entry not stored")
	}
	if len(st.NoteDetails()[10].TocItems) != 1 {
		t.Fatal("detail toc not normalized")
	}
}

func TestPrefetchDetails(t *testing.T) {
	apiFake := &fakeAPI{
		details: map[int64]model.NoteDetail{
			3: {ID: 10, UserSeqNo: 3, Title: "Compilers"},
			4: {ID: 11, UserSeqNo: 4, Title: "Databases"},
		},
	}
	st := store.New()
	st.SetNotesByCategory(map[int64][]model.NoteSummary{
		1: {
			{ID: 10, UserSeqNo: 3},
			{ID: 11, UserSeqNo: 4},
		},
	})
	r := &Refresher{API: apiFake, Store: st}

	if err := r.PrefetchDetails(context.Background(), 2); err != nil {
		t.Fatalf("PrefetchDetails: %v", err)
	}
	if len(st.NoteDetails()) != 2 {
		t.Fatalf("details = %#v", st.NoteDetails())
	}
	// A second run has nothing left to fetch.
	before := len(apiFake.detailCalls)
	if err := r.PrefetchDetails(context.Background(), 2); err != nil {
		t.Fatalf("PrefetchDetails again: %v", err)
	}
	if len(apiFake.detailCalls) != before {
		t.Fatal("already-cached details fetched again")
	}
}

func TestPrefetchDetailsPartialFailure(t *testing.T) {
	apiFake := &fakeAPI{
		details: map[int64]model.NoteDetail{
			3: {ID: 10, UserSeqNo: 3, Title: "Compilers"},
		},
	}
	st := store.New()
	st.SetNotesByCategory(map[int64][]model.NoteSummary{
		1: {
			{ID: 10, UserSeqNo: 3},
			{ID: 11, UserSeqNo: 4}, // fake has no detail for this one
		},
	})
	r := &Refresher{API: apiFake, Store: st}

	err := r.PrefetchDetails(context.Background(), 2)
	if err == nil {
		t.Fatal("want first error reported")
	}
	// The successful fetch was still applied.
	if _, ok := st.NoteDetails()[10]; !ok {
		t.Fatal("successful fetch dropped")
	}
}
