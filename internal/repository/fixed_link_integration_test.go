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
// Fixed-Link Repository Integration Tests
// ============================================================================

func TestIntegrationFixedLinkRepository_CreateAndList(t *testing.T) {
	ctx, repo := newFixedLinkTestEnv(t)

	first := mustCreateFixedLink(ctx, t, repo, testutil.NewTestFixedLink(t, "Homepage"))
	time.Sleep(1 * time.Millisecond) // Ensure different created_at
	second := mustCreateFixedLink(ctx, t, repo, testutil.NewTestFixedLink(t, "Handbook"))

	listed, err := repo.ListFixedLinks(ctx)
	if err != nil {
		t.Fatalf("ListFixedLinks failed: %v", err)
	}

	if len(listed) != 2 {
		t.Fatalf("Expected 2 fixed links, got %d", len(listed))
	}
	if listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Errorf("Fixed links not newest first: got [%q, %q]", listed[0].ID, listed[1].ID)
	}
}

func TestIntegrationFixedLinkRepository_Count(t *testing.T) {
	ctx, repo := newFixedLinkTestEnv(t)

	count, err := repo.CountFixedLinks(ctx)
	if err != nil {
		t.Fatalf("CountFixedLinks failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 fixed links on fresh schema, got %d", count)
	}

	mustCreateFixedLink(ctx, t, repo, testutil.NewTestFixedLink(t, "Status"))

	count, err = repo.CountFixedLinks(ctx)
	if err != nil {
		t.Fatalf("CountFixedLinks (after create) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 fixed link, got %d", count)
	}
}

func TestIntegrationFixedLinkRepository_Update(t *testing.T) {
	ctx, repo := newFixedLinkTestEnv(t)

	link := mustCreateFixedLink(ctx, t, repo, testutil.NewTestFixedLink(t, "Before"))

	newTitle := "After"
	newIcon := "🏠"
	updated, err := repo.UpdateFixedLink(ctx, link.ID, model.FixedLinkPatch{
		Title: &newTitle,
		Icon:  &newIcon,
	})
	if err != nil {
		t.Fatalf("UpdateFixedLink failed: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("Title not updated: got %q, want %q", updated.Title, newTitle)
	}
	if updated.Icon != newIcon {
		t.Errorf("Icon not updated: got %q, want %q", updated.Icon, newIcon)
	}
	if !updated.UpdatedAt.After(link.UpdatedAt) {
		t.Error("UpdatedAt should advance on update")
	}
}

func TestIntegrationFixedLinkRepository_Update_NotFound(t *testing.T) {
	ctx, repo := newFixedLinkTestEnv(t)

	title := "Ghost"
	_, err := repo.UpdateFixedLink(ctx, "nonexistent-id", model.FixedLinkPatch{Title: &title})
	if !errors.Is(err, ErrFixedLinkNotFound) {
		t.Errorf("Expected ErrFixedLinkNotFound, got: %v", err)
	}
}

func TestIntegrationFixedLinkRepository_Delete(t *testing.T) {
	ctx, repo := newFixedLinkTestEnv(t)

	link := mustCreateFixedLink(ctx, t, repo, testutil.NewTestFixedLink(t, "Doomed"))

	if err := repo.DeleteFixedLink(ctx, link.ID); err != nil {
		t.Fatalf("DeleteFixedLink failed: %v", err)
	}

	if err := repo.DeleteFixedLink(ctx, link.ID); !errors.Is(err, ErrFixedLinkNotFound) {
		t.Errorf("Expected ErrFixedLinkNotFound on repeated delete, got: %v", err)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newFixedLinkTestEnv(t *testing.T) (context.Context, *Repository) {
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

	if err := testutil.ResetFixedLinksSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset fixed_links schema: %v", err)
	}

	return ctx, repo
}

func mustCreateFixedLink(ctx context.Context, t *testing.T, repo *Repository, link *model.FixedLink) *model.FixedLink {
	t.Helper()
	created, err := repo.CreateFixedLink(ctx, link)
	if err != nil {
		t.Fatalf("CreateFixedLink failed: %v", err)
	}
	return created
}
