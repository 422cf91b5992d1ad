package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linkboard/linkboard/internal/metrics"
	"github.com/linkboard/linkboard/internal/model"
)

const entityFixedLink = "fixed_link"

// FixedLinkGateway is the database surface the fixed-link store depends on.
// Implemented by *repository.Repository.
type FixedLinkGateway interface {
	CreateFixedLink(ctx context.Context, link *model.FixedLink) (*model.FixedLink, error)
	ListFixedLinks(ctx context.Context) ([]*model.FixedLink, error)
	UpdateFixedLink(ctx context.Context, id string, patch model.FixedLinkPatch) (*model.FixedLink, error)
	DeleteFixedLink(ctx context.Context, id string) error
}

// FixedLinkCache is the shared cache in front of the fixed-links table.
// GetFixedLinks returns (nil, nil) on a miss. Implemented by *cache.Cache.
type FixedLinkCache interface {
	GetFixedLinks(ctx context.Context) ([]*model.FixedLink, error)
	SetFixedLinks(ctx context.Context, links []*model.FixedLink) error
	InvalidateFixedLinks(ctx context.Context) error
}

// FixedLinkStore owns the single global mirror of the fixed_links
// table. Fixed links have no owner; reads are open to any signed-in
// user of the organization, while mutations are admin-gated at the
// route level. Because instances share the table, the in-process mirror
// is backed by a shared cache with a short TTL.
type FixedLinkStore struct {
	gateway FixedLinkGateway
	cache   FixedLinkCache
	metrics metrics.Recorder

	mu         sync.Mutex
	state      State
	loaded     bool
	generation uint64
	entries    []*model.FixedLink
}

// NewFixedLinkStore creates a FixedLinkStore. cache may be nil, in
// which case every refetch goes to the gateway.
func NewFixedLinkStore(gateway FixedLinkGateway, cache FixedLinkCache, recorder metrics.Recorder) *FixedLinkStore {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &FixedLinkStore{
		gateway: gateway,
		cache:   cache,
		metrics: recorder,
		state:   StateUninitialized,
	}
}

// List returns the fixed links, newest first.
func (s *FixedLinkStore) List(ctx context.Context) ([]*model.FixedLink, error) {
	s.mu.Lock()
	if s.state == StateReady {
		entries := copyFixedLinks(s.entries)
		s.mu.Unlock()
		return entries, nil
	}
	s.mu.Unlock()

	return s.Refetch(ctx)
}

// Refetch replaces the mirror wholesale, trying the shared cache before
// the gateway. A cache failure falls through to the gateway.
func (s *FixedLinkStore) Refetch(ctx context.Context) ([]*model.FixedLink, error) {
	s.mu.Lock()
	s.state = StateLoading
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	links, fromCache, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return copyFixedLinks(s.entries), nil
	}

	if err != nil {
		if s.loaded {
			s.state = StateReady
		} else {
			s.state = StateUninitialized
		}
		s.metrics.IncEntityOpFailed(entityFixedLink)
		return nil, fmt.Errorf("load fixed links: %w", err)
	}

	s.entries = links
	s.state = StateReady
	s.loaded = true
	s.metrics.IncEntityRefetch(entityFixedLink)
	if !fromCache && s.cache != nil {
		// Best effort; a failed cache write only costs the next
		// instance a database read.
		_ = s.cache.SetFixedLinks(ctx, links)
	}
	return copyFixedLinks(s.entries), nil
}

// Create inserts a new fixed link and prepends the canonical row to the
// mirror. Only reachable through admin-gated routes.
func (s *FixedLinkStore) Create(ctx context.Context, draft *model.FixedLink) (*model.FixedLink, error) {
	now := time.Now().UTC()
	draft.ID = NewEntityID()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	created, err := s.gateway.CreateFixedLink(ctx, draft)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityFixedLink)
		return nil, fmt.Errorf("create fixed link: %w", err)
	}

	s.mu.Lock()
	if s.state == StateReady {
		s.entries = append([]*model.FixedLink{created}, s.entries...)
	}
	s.mu.Unlock()

	s.invalidate(ctx)
	s.metrics.IncEntityCreated(entityFixedLink)
	return created, nil
}

// Update applies a partial update to a fixed link and replaces the
// mirror entry with the server-returned row.
func (s *FixedLinkStore) Update(ctx context.Context, id string, patch model.FixedLinkPatch) (*model.FixedLink, error) {
	updated, err := s.gateway.UpdateFixedLink(ctx, id, patch)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityFixedLink)
		return nil, fmt.Errorf("update fixed link: %w", err)
	}

	s.mu.Lock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.invalidate(ctx)
	s.metrics.IncEntityUpdated(entityFixedLink)
	return updated, nil
}

// Delete removes a fixed link and drops it from the mirror.
func (s *FixedLinkStore) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteFixedLink(ctx, id); err != nil {
		s.metrics.IncEntityOpFailed(entityFixedLink)
		return fmt.Errorf("delete fixed link: %w", err)
	}

	s.mu.Lock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.invalidate(ctx)
	s.metrics.IncEntityDeleted(entityFixedLink)
	return nil
}

// State returns the lifecycle state of the mirror.
func (s *FixedLinkStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// fetch reads the list from the cache when possible, the gateway otherwise.
func (s *FixedLinkStore) fetch(ctx context.Context) (links []*model.FixedLink, fromCache bool, err error) {
	if s.cache != nil {
		cached, cacheErr := s.cache.GetFixedLinks(ctx)
		if cacheErr == nil && cached != nil {
			s.metrics.IncFixedLinksCacheHit()
			return cached, true, nil
		}
		s.metrics.IncFixedLinksCacheMiss()
	}

	links, err = s.gateway.ListFixedLinks(ctx)
	return links, false, err
}

// invalidate drops the shared cache entry after a mutation.
func (s *FixedLinkStore) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFixedLinks(ctx)
	}
}

func copyFixedLinks(src []*model.FixedLink) []*model.FixedLink {
	dst := make([]*model.FixedLink, len(src))
	copy(dst, src)
	return dst
}
