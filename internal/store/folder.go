package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linkboard/linkboard/internal/metrics"
	"github.com/linkboard/linkboard/internal/model"
)

const entityFolder = "folder"

// FolderGateway is the database surface the folder store depends on.
// Implemented by *repository.Repository.
type FolderGateway interface {
	CreateFolder(ctx context.Context, folder *model.Folder) (*model.Folder, error)
	ListFolders(ctx context.Context, userID string) ([]*model.Folder, error)
	UpdateFolder(ctx context.Context, id, userID string, patch model.FolderPatch) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id, userID string) error
}

// folderMirror is one user's in-memory view of their folders.
type folderMirror struct {
	state      State
	loaded     bool
	generation uint64
	entries    []*model.Folder
}

// FolderStore owns per-user mirrors of the folders table. Folders were
// once persisted in browser storage on the client; they are server-side
// rows here so every device sees the same set.
type FolderStore struct {
	gateway FolderGateway
	metrics metrics.Recorder

	mu      sync.Mutex
	mirrors map[string]*folderMirror
}

// NewFolderStore creates a FolderStore.
func NewFolderStore(gateway FolderGateway, recorder metrics.Recorder) *FolderStore {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &FolderStore{
		gateway: gateway,
		metrics: recorder,
		mirrors: make(map[string]*folderMirror),
	}
}

// List returns the user's folders, newest first.
func (s *FolderStore) List(ctx context.Context, userID string) ([]*model.Folder, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	m := s.mirror(userID)
	if m.state == StateReady {
		entries := copyFolders(m.entries)
		s.mu.Unlock()
		return entries, nil
	}
	s.mu.Unlock()

	return s.Refetch(ctx, userID)
}

// Refetch replaces the user's mirror wholesale from the gateway.
func (s *FolderStore) Refetch(ctx context.Context, userID string) ([]*model.Folder, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	m := s.mirror(userID)
	m.state = StateLoading
	m.generation++
	gen := m.generation
	s.mu.Unlock()

	folders, err := s.gateway.ListFolders(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if m.generation != gen {
		return copyFolders(m.entries), nil
	}

	if err != nil {
		if m.loaded {
			m.state = StateReady
		} else {
			m.state = StateUninitialized
		}
		s.metrics.IncEntityOpFailed(entityFolder)
		return nil, fmt.Errorf("load folders: %w", err)
	}

	m.entries = folders
	m.state = StateReady
	m.loaded = true
	s.metrics.IncEntityRefetch(entityFolder)
	return copyFolders(m.entries), nil
}

// Create inserts a new folder for the user and prepends the canonical
// row to the mirror.
func (s *FolderStore) Create(ctx context.Context, userID string, draft *model.Folder) (*model.Folder, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	now := time.Now().UTC()
	draft.ID = NewEntityID()
	draft.UserID = userID
	draft.CreatedAt = now
	draft.UpdatedAt = now

	created, err := s.gateway.CreateFolder(ctx, draft)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityFolder)
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.mu.Lock()
	m := s.mirror(userID)
	if m.state == StateReady {
		m.entries = append([]*model.Folder{created}, m.entries...)
	}
	s.mu.Unlock()

	s.metrics.IncEntityCreated(entityFolder)
	return created, nil
}

// Update applies a partial update to one of the user's folders and
// replaces the mirror entry with the server-returned row.
func (s *FolderStore) Update(ctx context.Context, userID, id string, patch model.FolderPatch) (*model.Folder, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	updated, err := s.gateway.UpdateFolder(ctx, id, userID, patch)
	if err != nil {
		s.metrics.IncEntityOpFailed(entityFolder)
		return nil, fmt.Errorf("update folder: %w", err)
	}

	s.mu.Lock()
	m := s.mirror(userID)
	for i, entry := range m.entries {
		if entry.ID == id {
			m.entries[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.metrics.IncEntityUpdated(entityFolder)
	return updated, nil
}

// Delete removes one of the user's folders and drops it from the
// mirror. Shortcuts that lived inside the folder are unfiled by the
// gateway, not deleted; they show up in the shortcut listing on its
// next refetch.
func (s *FolderStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	if err := s.gateway.DeleteFolder(ctx, id, userID); err != nil {
		s.metrics.IncEntityOpFailed(entityFolder)
		return fmt.Errorf("delete folder: %w", err)
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

	s.metrics.IncEntityDeleted(entityFolder)
	return nil
}

// State returns the lifecycle state of the user's mirror.
func (s *FolderStore) State(userID string) State {
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
func (s *FolderStore) mirror(userID string) *folderMirror {
	m, ok := s.mirrors[userID]
	if !ok {
		m = &folderMirror{state: StateUninitialized}
		s.mirrors[userID] = m
	}
	return m
}

func copyFolders(src []*model.Folder) []*model.Folder {
	dst := make([]*model.Folder, len(src))
	copy(dst, src)
	return dst
}
