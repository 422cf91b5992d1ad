package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linkboard/linkboard/internal/metrics"
	"github.com/linkboard/linkboard/internal/model"
)

const entityShortcut = "shortcut"

// ShortcutGateway is the database surface the shortcut store depends on.
// Implemented by *repository.Repository.
type ShortcutGateway interface {
	CreateShortcut(ctx context.Context, shortcut *model.Shortcut) (*model.Shortcut, error)
	ListShortcuts(ctx context.Context, userID string) ([]*model.Shortcut, error)
	ListShortcutsInFolder(ctx context.Context, userID, folderID string) ([]*model.Shortcut, error)
	UpdateShortcut(ctx context.Context, id, userID string, patch model.ShortcutPatch) (*model.Shortcut, error)
	DeleteShortcut(ctx context.Context, id, userID string) error
}

// shortcutMirror is one user's in-memory view of their unfiled shortcuts.
type shortcutMirror struct {
	state      State
	loaded     bool
	generation uint64
	entries    []*model.Shortcut
}

// ShortcutStore owns per-user mirrors of the shortcuts table.
// The default listing covers unfiled shortcuts only; folder-scoped
// listings go straight to the gateway.
type ShortcutStore struct {
	gateway ShortcutGateway
	metrics metrics.Recorder

	mu      sync.Mutex
	mirrors map[string]*shortcutMirror
}

// NewShortcutStore creates a ShortcutStore.
func NewShortcutStore(gateway ShortcutGateway, recorder metrics.Recorder) *ShortcutStore {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ShortcutStore{
		gateway: gateway,
		metrics: recorder,
		mirrors: make(map[string]*shortcutMirror),
	}
}

// List returns the user's unfiled shortcuts, newest first. The first
// call for a user populates the mirror from the gateway; subsequent
// calls are served from memory.
func (s *ShortcutStore) List(ctx context.Context, userID string) ([]*model.Shortcut, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	m := s.mirror(userID)
	if m.state == StateReady {
		entries := copyShortcuts(m.entries)
		s.mu.Unlock()
		return entries, nil
	}
	s.mu.Unlock()

	return s.Refetch(ctx, userID)
}

// ListFolder returns the user's shortcuts inside one folder, newest
// first, directly from the gateway.
func (s *ShortcutStore) ListFolder(ctx context.Context, userID, folderID string) ([]*model.Shortcut, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	shortcuts, err := s.gateway.ListShortcutsInFolder(ctx, userID, folderID)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityShortcut)
		return nil, fmt.Errorf("list folder shortcuts: %w", err)
	}
	return shortcuts, nil
}

// Refetch replaces the user's mirror wholesale from the gateway.
// A refetch that is superseded by a newer one before its response
// arrives does not touch the mirror.
func (s *ShortcutStore) Refetch(ctx context.Context, userID string) ([]*model.Shortcut, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	m := s.mirror(userID)
	m.state = StateLoading
	m.generation++
	gen := m.generation
	s.mu.Unlock()

	shortcuts, err := s.gateway.ListShortcuts(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if m.generation != gen {
		// Superseded by a newer refetch; leave the mirror alone and
		// hand back whatever the winning refetch installed.
		return copyShortcuts(m.entries), nil
	}

	if err != nil {
		if m.loaded {
			m.state = StateReady
		} else {
			m.state = StateUninitialized
		}
		s.metrics.IncEntityOpFailed(entityShortcut)
		return nil, fmt.Errorf("load shortcuts: %w", err)
	}

	m.entries = shortcuts
	m.state = StateReady
	m.loaded = true
	s.metrics.IncEntityRefetch(entityShortcut)
	return copyShortcuts(m.entries), nil
}

// Create inserts a new shortcut for the user and prepends the canonical
// row to the mirror. Field validation is the form controller's job; the
// store only stamps identity, ownership, and the creation time.
func (s *ShortcutStore) Create(ctx context.Context, userID string, draft *model.Shortcut) (*model.Shortcut, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	draft.ID = NewEntityID()
	draft.UserID = userID
	draft.CreatedAt = time.Now().UTC()

	created, err := s.gateway.CreateShortcut(ctx, draft)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityShortcut)
		return nil, fmt.Errorf("create shortcut: %w", err)
	}

	s.mu.Lock()
	m := s.mirror(userID)
	if m.state == StateReady && !created.InFolder() {
		m.entries = append([]*model.Shortcut{created}, m.entries...)
	}
	s.mu.Unlock()

	s.metrics.IncEntityCreated(entityShortcut)
	return created, nil
}

// Update applies a partial update to one of the user's shortcuts and
// replaces the mirror entry with the server-returned row. A shortcut
// moved into a folder leaves the unfiled mirror; one moved out of a
// folder reappears on the next refetch.
func (s *ShortcutStore) Update(ctx context.Context, userID, id string, patch model.ShortcutPatch) (*model.Shortcut, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	updated, err := s.gateway.UpdateShortcut(ctx, id, userID, patch)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityShortcut)
		return nil, fmt.Errorf("update shortcut: %w", err)
	}

	s.mu.Lock()
	m := s.mirror(userID)
	if m.state == StateReady {
		for i, entry := range m.entries {
			if entry.ID != id {
				continue
			}
			if updated.InFolder() {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
			} else {
				m.entries[i] = updated
			}
			break
		}
	}
	s.mu.Unlock()

	s.metrics.IncEntityUpdated(entityShortcut)
	return updated, nil
}

// Delete removes one of the user's shortcuts and drops it from the mirror.
func (s *ShortcutStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	if err := s.gateway.DeleteShortcut(ctx, id, userID); err != nil {
		s.metrics.IncEntityOpFailed(entityShortcut)
		return fmt.Errorf("delete shortcut: %w", err)
	}

	s.mu.Lock()
	m := s.mirror(userID)
	for i, entry := range m.entries {
		if entry.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.metrics.IncEntityDeleted(entityShortcut)
	return nil
}

// State returns the lifecycle state of the user's mirror.
func (s *ShortcutStore) State(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mirrors[userID]
	if !ok {
		return StateUninitialized
	}
	return m.state
}

// mirror returns the user's mirror, creating it on first use.
// Caller must hold s.mu.
func (s *ShortcutStore) mirror(userID string) *shortcutMirror {
	m, ok := s.mirrors[userID]
	if !ok {
		m = &shortcutMirror{state: StateUninitialized}
		s.mirrors[userID] = m
	}
	return m
}

func copyShortcuts(src []*model.Shortcut) []*model.Shortcut {
	dst := make([]*model.Shortcut, len(src))
	copy(dst, src)
	return dst
}
