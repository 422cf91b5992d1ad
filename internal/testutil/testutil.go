package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/linkboard/linkboard/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420421

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// runMigrationScript executes one migration script (suffix ".up.sql"
// or ".down.sql") against pool.
func runMigrationScript(ctx context.Context, pool *pgxpool.Pool, name, suffix string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", name+suffix))
	if err != nil {
		return fmt.Errorf("read %s%s migration: %w", name, suffix, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s%s migration: %w", name, suffix, err)
	}

	return nil
}

// applyMigration runs a migration's down then up scripts against pool.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	if err := runMigrationScript(ctx, pool, name, ".down.sql"); err != nil {
		return err
	}
	return runMigrationScript(ctx, pool, name, ".up.sql")
}

// ResetUsersSchema drops and recreates the users schema for tests.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000001_users")
}

// ResetFoldersSchema drops and recreates the folders and shortcuts
// schemas for tests. Shortcuts carry a foreign key into folders, so
// both tables come down shortcuts-first and go up folders-first.
func ResetFoldersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if err := runMigrationScript(ctx, pool, "000003_shortcuts", ".down.sql"); err != nil {
		return err
	}
	if err := applyMigration(ctx, pool, "000002_folders"); err != nil {
		return err
	}
	return runMigrationScript(ctx, pool, "000003_shortcuts", ".up.sql")
}

// ResetShortcutsSchema drops and recreates the shortcuts schema for
// tests. The folders schema must already exist.
func ResetShortcutsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000003_shortcuts")
}

// ResetFixedLinksSchema drops and recreates the fixed_links schema for tests.
func ResetFixedLinksSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigration(ctx, pool, "000004_fixed_links")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$dGVzdHNhbHQ$dGVzdGhhc2g",
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestShortcut creates an unfiled test shortcut owned by userID.
func NewTestShortcut(t testing.TB, userID, title string) *model.Shortcut {
	t.Helper()
	return &model.Shortcut{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     title,
		URL:       "https://example.com/" + ulid.Make().String(),
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestFolder creates a test folder owned by userID.
func NewTestFolder(t testing.TB, userID, name string) *model.Folder {
	t.Helper()
	now := time.Now().UTC()
	return &model.Folder{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		Icon:      "📁",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestFixedLink creates a test fixed link.
func NewTestFixedLink(t testing.TB, title string) *model.FixedLink {
	t.Helper()
	now := time.Now().UTC()
	return &model.FixedLink{
		ID:        ulid.Make().String(),
		Title:     title,
		URL:       "https://example.com/" + ulid.Make().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueEmail generates a unique email on the given domain for tests.
func UniqueEmail(prefix, domain string) string {
	return fmt.Sprintf("%s-%d@%s", prefix, time.Now().UnixNano(), domain)
}
