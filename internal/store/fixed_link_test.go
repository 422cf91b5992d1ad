package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linkboard/linkboard/internal/metrics"
	"github.com/linkboard/linkboard/internal/model"
)

type fakeFixedLinkGateway struct {
	mu        sync.Mutex
	rows      []*model.FixedLink
	listCalls int
	listErr   error
}

func (g *fakeFixedLinkGateway) seed(links ...*model.FixedLink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = append(links, g.rows...)
}

func (g *fakeFixedLinkGateway) CreateFixedLink(_ context.Context, link *model.FixedLink) (*model.FixedLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	row := *link
	g.rows = append([]*model.FixedLink{&row}, g.rows...)
	return &row, nil
}

func (g *fakeFixedLinkGateway) ListFixedLinks(_ context.Context) ([]*model.FixedLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]*model.FixedLink(nil), g.rows...), nil
}

func (g *fakeFixedLinkGateway) UpdateFixedLink(_ context.Context, id string, patch model.FixedLinkPatch) (*model.FixedLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, row := range g.rows {
		if row.ID != id {
			continue
		}
		updated := *row
		if patch.Title != nil {
			updated.Title = *patch.Title
		}
		if patch.URL != nil {
			updated.URL = *patch.URL
		}
		updated.UpdatedAt = time.Now().UTC()
		g.rows[i] = &updated
		return &updated, nil
	}
	return nil, errors.New("fixed link not found")
}

func (g *fakeFixedLinkGateway) DeleteFixedLink(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, row := range g.rows {
		if row.ID == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("fixed link not found")
}

// fakeFixedLinkCache is an in-process stand-in for the Redis-backed
// fixed-links cache.
type fakeFixedLinkCache struct {
	mu          sync.Mutex
	links       []*model.FixedLink
	sets        int
	invalidates int
	getErr      error
}

func (c *fakeFixedLinkCache) GetFixedLinks(_ context.Context) ([]*model.FixedLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.links, nil
}

func (c *fakeFixedLinkCache) SetFixedLinks(_ context.Context, links []*model.FixedLink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = links
	c.sets++
	return nil
}

func (c *fakeFixedLinkCache) InvalidateFixedLinks(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = nil
	c.invalidates++
	return nil
}

func testFixedLink(id, title string) *model.FixedLink {
	now := time.Now().UTC()
	return &model.FixedLink{
		ID:        id,
		Title:     title,
		URL:       "https://example.com/" + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestFixedLinkStoreListWithoutCache(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	gateway.seed(testFixedLink("l2", "newer"), testFixedLink("l1", "older"))
	s := NewFixedLinkStore(gateway, nil, nil)

	if got := s.State(); got != StateUninitialized {
		t.Fatalf("state = %v, want %v", got, StateUninitialized)
	}

	links, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(links) != 2 || links[0].ID != "l2" || links[1].ID != "l1" {
		t.Fatalf("List() returned %d links, want [l2 l1]", len(links))
	}
	if got := s.State(); got != StateReady {
		t.Fatalf("state = %v, want %v", got, StateReady)
	}

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gateway.listCalls != 1 {
		t.Fatalf("gateway list calls = %d, want 1", gateway.listCalls)
	}
}

func TestFixedLinkStoreRefetchPopulatesCache(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	gateway.seed(testFixedLink("l1", "docs"))
	cache := &fakeFixedLinkCache{}
	recorder := metrics.NewInMemory()
	s := NewFixedLinkStore(gateway, cache, recorder)

	if _, err := s.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}
	if snap := recorder.Snapshot(); snap.FixedLinksCacheMisses != 1 || snap.FixedLinksCacheHits != 0 {
		t.Fatalf("cache hits/misses = %d/%d, want 0/1", snap.FixedLinksCacheHits, snap.FixedLinksCacheMisses)
	}

	// A second store instance sharing the cache loads without touching
	// the database.
	other := NewFixedLinkStore(gateway, cache, recorder)
	links, err := other.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(links) != 1 || links[0].ID != "l1" {
		t.Fatalf("List() returned %d links, want [l1]", len(links))
	}
	if gateway.listCalls != 1 {
		t.Fatalf("gateway list calls = %d, want 1", gateway.listCalls)
	}
	if snap := recorder.Snapshot(); snap.FixedLinksCacheHits != 1 {
		t.Fatalf("cache hits = %d, want 1", snap.FixedLinksCacheHits)
	}
}

func TestFixedLinkStoreCacheFailureFallsThrough(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	gateway.seed(testFixedLink("l1", "docs"))
	cache := &fakeFixedLinkCache{getErr: errors.New("redis down")}
	s := NewFixedLinkStore(gateway, cache, nil)

	links, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("List() returned %d links, want 1", len(links))
	}
	if gateway.listCalls != 1 {
		t.Fatalf("gateway list calls = %d, want 1", gateway.listCalls)
	}
}

func TestFixedLinkStoreMutationsInvalidateCache(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	cache := &fakeFixedLinkCache{}
	s := NewFixedLinkStore(gateway, cache, nil)

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	created, err := s.Create(context.Background(), &model.FixedLink{Title: "wiki", URL: "https://wiki.example.com"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("created = %+v, want stamped id and timestamps", created)
	}

	title := "handbook"
	if _, err := s.Update(context.Background(), created.ID, model.FixedLinkPatch{Title: &title}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if cache.invalidates != 3 {
		t.Fatalf("cache invalidations = %d, want 3", cache.invalidates)
	}

	links, _ := s.List(context.Background())
	if len(links) != 0 {
		t.Fatalf("List() returned %d links, want 0", len(links))
	}
}

func TestFixedLinkStoreMirrorTracksMutations(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	gateway.seed(testFixedLink("l1", "docs"))
	s := NewFixedLinkStore(gateway, nil, nil)

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	created, err := s.Create(context.Background(), &model.FixedLink{Title: "wiki", URL: "https://wiki.example.com"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	links, _ := s.List(context.Background())
	if len(links) != 2 || links[0].ID != created.ID || links[1].ID != "l1" {
		t.Fatal("created link is not first in the listing")
	}

	title := "handbook"
	if _, err := s.Update(context.Background(), "l1", model.FixedLinkPatch{Title: &title}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	links, _ = s.List(context.Background())
	if links[1].Title != "handbook" {
		t.Fatal("update did not replace the entry in place")
	}

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	links, _ = s.List(context.Background())
	if len(links) != 1 || links[0].ID != "l1" {
		t.Fatal("delete did not remove the entry from the mirror")
	}
	if gateway.listCalls != 1 {
		t.Fatalf("gateway list calls = %d, want 1 (mutations must not refetch)", gateway.listCalls)
	}
}

func TestFixedLinkStoreRefetchFailureKeepsMirror(t *testing.T) {
	t.Parallel()

	gateway := &fakeFixedLinkGateway{}
	gateway.seed(testFixedLink("l1", "docs"))
	s := NewFixedLinkStore(gateway, nil, nil)

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	gateway.mu.Lock()
	gateway.listErr = errors.New("connection refused")
	gateway.mu.Unlock()

	if _, err := s.Refetch(context.Background()); err == nil {
		t.Fatal("Refetch() error = nil, want error")
	}
	if got := s.State(); got != StateReady {
		t.Fatalf("state = %v, want %v", got, StateReady)
	}
	links, _ := s.List(context.Background())
	if len(links) != 1 {
		t.Fatal("failed refetch changed the mirror")
	}
}
