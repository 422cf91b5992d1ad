//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkboard/linkboard/internal/model"
	"github.com/linkboard/linkboard/internal/testutil"
)

// ============================================================================
// Shortcut Repository Integration Tests
// ============================================================================

func TestIntegrationShortcutRepository_Create(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)
	shortcut := testutil.NewTestShortcut(t, user.ID, "Team wiki")
	shortcut.Icon = "📓"

	created, err := repo.CreateShortcut(ctx, shortcut)
	if err != nil {
		t.Fatalf("CreateShortcut failed: %v", err)
	}

	if created.ID != shortcut.ID {
		t.Errorf("ID mismatch: got %q, want %q", created.ID, shortcut.ID)
	}
	if created.Title != "Team wiki" {
		t.Errorf("Title mismatch: got %q, want %q", created.Title, "Team wiki")
	}
	if created.Icon != "📓" {
		t.Errorf("Icon mismatch: got %q, want %q", created.Icon, "📓")
	}
	if created.InFolder() {
		t.Error("New shortcut should be unfiled")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationShortcutRepository_ListExcludesFiled(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)
	folder := mustCreateFolder(ctx, t, repo, testutil.NewTestFolder(t, user.ID, "Work"))

	unfiled := mustCreateShortcut(ctx, t, repo, testutil.NewTestShortcut(t, user.ID, "Unfiled"))

	filed := testutil.NewTestShortcut(t, user.ID, "Filed")
	filed.FolderID = &folder.ID
	mustCreateShortcut(ctx, t, repo, filed)

	listed, err := repo.ListShortcuts(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListShortcuts failed: %v", err)
	}

	if len(listed) != 1 {
		t.Fatalf("Expected 1 unfiled shortcut, got %d", len(listed))
	}
	if listed[0].ID != unfiled.ID {
		t.Errorf("Unexpected shortcut in unfiled listing: got %q, want %q", listed[0].ID, unfiled.ID)
	}

	inFolder, err := repo.ListShortcutsInFolder(ctx, user.ID, folder.ID)
	if err != nil {
		t.Fatalf("ListShortcutsInFolder failed: %v", err)
	}

	if len(inFolder) != 1 {
		t.Fatalf("Expected 1 shortcut in folder, got %d", len(inFolder))
	}
	if inFolder[0].ID != filed.ID {
		t.Errorf("Unexpected shortcut in folder listing: got %q, want %q", inFolder[0].ID, filed.ID)
	}
}

func TestIntegrationShortcutRepository_ListNewestFirst(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)

	var ids []string
	for i := 0; i < 3; i++ {
		s := testutil.NewTestShortcut(t, user.ID, "Ordered")
		mustCreateShortcut(ctx, t, repo, s)
		ids = append(ids, s.ID)
		time.Sleep(1 * time.Millisecond) // Ensure different created_at
	}

	listed, err := repo.ListShortcuts(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListShortcuts failed: %v", err)
	}

	if len(listed) != 3 {
		t.Fatalf("Expected 3 shortcuts, got %d", len(listed))
	}
	for i := range listed {
		want := ids[len(ids)-1-i]
		if listed[i].ID != want {
			t.Errorf("Position %d: got %q, want %q", i, listed[i].ID, want)
		}
	}
}

func TestIntegrationShortcutRepository_Update(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)
	shortcut := mustCreateShortcut(ctx, t, repo, testutil.NewTestShortcut(t, user.ID, "Before"))

	newTitle := "After"
	newURL := "https://example.com/after"
	updated, err := repo.UpdateShortcut(ctx, shortcut.ID, user.ID, model.ShortcutPatch{
		Title: &newTitle,
		URL:   &newURL,
	})
	if err != nil {
		t.Fatalf("UpdateShortcut failed: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("Title not updated: got %q, want %q", updated.Title, newTitle)
	}
	if updated.URL != newURL {
		t.Errorf("URL not updated: got %q, want %q", updated.URL, newURL)
	}
}

func TestIntegrationShortcutRepository_Update_ClearFolder(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)
	folder := mustCreateFolder(ctx, t, repo, testutil.NewTestFolder(t, user.ID, "Clearable"))

	shortcut := testutil.NewTestShortcut(t, user.ID, "Filed")
	shortcut.FolderID = &folder.ID
	mustCreateShortcut(ctx, t, repo, shortcut)

	updated, err := repo.UpdateShortcut(ctx, shortcut.ID, user.ID, model.ShortcutPatch{ClearFolder: true})
	if err != nil {
		t.Fatalf("UpdateShortcut failed: %v", err)
	}

	if updated.InFolder() {
		t.Errorf("FolderID should be nil after ClearFolder, got %v", updated.FolderID)
	}
}

func TestIntegrationShortcutRepository_Update_NotFound(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)

	title := "Ghost"
	_, err := repo.UpdateShortcut(ctx, "nonexistent-id", user.ID, model.ShortcutPatch{Title: &title})
	if !errors.Is(err, ErrShortcutNotFound) {
		t.Errorf("Expected ErrShortcutNotFound, got: %v", err)
	}
}

func TestIntegrationShortcutRepository_OwnershipIsolation(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	owner := createTestUser(ctx, t, repo)
	other := createTestUser(ctx, t, repo)
	shortcut := mustCreateShortcut(ctx, t, repo, testutil.NewTestShortcut(t, owner.ID, "Private"))

	// Another user cannot see, update, or delete the row.
	listed, err := repo.ListShortcuts(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListShortcuts failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected empty listing for other user, got %d", len(listed))
	}

	title := "Hijacked"
	if _, err := repo.UpdateShortcut(ctx, shortcut.ID, other.ID, model.ShortcutPatch{Title: &title}); !errors.Is(err, ErrShortcutNotFound) {
		t.Errorf("Expected ErrShortcutNotFound on cross-user update, got: %v", err)
	}

	if err := repo.DeleteShortcut(ctx, shortcut.ID, other.ID); !errors.Is(err, ErrShortcutNotFound) {
		t.Errorf("Expected ErrShortcutNotFound on cross-user delete, got: %v", err)
	}

	// The owner still sees the untouched row.
	remaining, err := repo.ListShortcuts(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListShortcuts failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "Private" {
		t.Errorf("Owner's shortcut was affected by cross-user operations: %+v", remaining)
	}
}

func TestIntegrationShortcutRepository_Delete(t *testing.T) {
	ctx, repo := newShortcutTestEnv(t)

	user := createTestUser(ctx, t, repo)
	shortcut := mustCreateShortcut(ctx, t, repo, testutil.NewTestShortcut(t, user.ID, "Doomed"))

	if err := repo.DeleteShortcut(ctx, shortcut.ID, user.ID); err != nil {
		t.Fatalf("DeleteShortcut failed: %v", err)
	}

	listed, err := repo.ListShortcuts(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListShortcuts failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected empty listing after delete, got %d", len(listed))
	}

	if err := repo.DeleteShortcut(ctx, shortcut.ID, user.ID); !errors.Is(err, ErrShortcutNotFound) {
		t.Errorf("Expected ErrShortcutNotFound on repeated delete, got: %v", err)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newShortcutTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetFoldersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset folders schema: %v", err)
	}

	return ctx, repo
}

func createTestUser(ctx context.Context, t *testing.T, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueEmail("repo", "clint.digital"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func mustCreateShortcut(ctx context.Context, t *testing.T, repo *Repository, s *model.Shortcut) *model.Shortcut {
	t.Helper()
	created, err := repo.CreateShortcut(ctx, s)
	if err != nil {
		t.Fatalf("CreateShortcut failed: %v", err)
	}
	return created
}

func mustCreateFolder(ctx context.Context, t *testing.T, repo *Repository, f *model.Folder) *model.Folder {
	t.Helper()
	created, err := repo.CreateFolder(ctx, f)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	return created
}
