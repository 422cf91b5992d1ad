package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linkboard/linkboard/internal/model"
)

// Common errors for shortcut repository operations.
var (
	ErrShortcutNotFound = errors.New("shortcut not found")
)

const shortcutColumns = "id, user_id, title, url, description, category, icon, folder_id, created_at"

// CreateShortcut inserts a new shortcut and returns the canonical row.
func (r *Repository) CreateShortcut(ctx context.Context, shortcut *model.Shortcut) (*model.Shortcut, error) {
	query := `
		INSERT INTO shortcuts (id, user_id, title, url, description, category, icon, folder_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + shortcutColumns

	created, err := scanShortcut(r.pool.QueryRow(ctx, query,
		shortcut.ID,
		shortcut.UserID,
		shortcut.Title,
		shortcut.URL,
		shortcut.Description,
		shortcut.Category,
		shortcut.Icon,
		shortcut.FolderID,
		shortcut.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create shortcut: %w", err)
	}

	return created, nil
}

// ListShortcuts retrieves a user's unfiled shortcuts, newest first.
// Shortcuts assigned to a folder are excluded; use ListShortcutsInFolder
// for folder-scoped listings.
func (r *Repository) ListShortcuts(ctx context.Context, userID string) ([]*model.Shortcut, error) {
	query := `
		SELECT ` + shortcutColumns + `
		FROM shortcuts
		WHERE user_id = $1 AND folder_id IS NULL
		ORDER BY created_at DESC, id DESC
	`

	return r.queryShortcuts(ctx, query, userID)
}

// ListShortcutsInFolder retrieves a user's shortcuts inside one folder, newest first.
func (r *Repository) ListShortcutsInFolder(ctx context.Context, userID, folderID string) ([]*model.Shortcut, error) {
	query := `
		SELECT ` + shortcutColumns + `
		FROM shortcuts
		WHERE user_id = $1 AND folder_id = $2
		ORDER BY created_at DESC, id DESC
	`

	return r.queryShortcuts(ctx, query, userID, folderID)
}

// UpdateShortcut applies a partial update to a shortcut owned by the
// given user and returns the canonical updated row. The owner filter
// prevents cross-user modification.
func (r *Repository) UpdateShortcut(ctx context.Context, id, userID string, patch model.ShortcutPatch) (*model.Shortcut, error) {
	query := `UPDATE shortcuts SET `
	args := []any{id, userID}
	argIndex := 3
	set := func(column string, value any) {
		if argIndex > 3 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.URL != nil {
		set("url", *patch.URL)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Icon != nil {
		set("icon", *patch.Icon)
	}
	if patch.ClearFolder {
		if argIndex > 3 {
			query += ", "
		}
		query += "folder_id = NULL"
		argIndex++ // keep the separator logic consistent
	} else if patch.FolderID != nil {
		set("folder_id", *patch.FolderID)
	}

	if argIndex == 3 {
		// Empty patch: return the current row unchanged.
		return r.getShortcut(ctx, id, userID)
	}

	query += " WHERE id = $1 AND user_id = $2 RETURNING " + shortcutColumns

	updated, err := scanShortcut(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShortcutNotFound
		}
		return nil, fmt.Errorf("failed to update shortcut: %w", err)
	}

	return updated, nil
}

// DeleteShortcut removes a shortcut owned by the given user.
func (r *Repository) DeleteShortcut(ctx context.Context, id, userID string) error {
	query := `DELETE FROM shortcuts WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete shortcut: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrShortcutNotFound
	}

	return nil
}

// getShortcut retrieves a single shortcut scoped to its owner.
func (r *Repository) getShortcut(ctx context.Context, id, userID string) (*model.Shortcut, error) {
	query := `
		SELECT ` + shortcutColumns + `
		FROM shortcuts
		WHERE id = $1 AND user_id = $2
	`

	shortcut, err := scanShortcut(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShortcutNotFound
		}
		return nil, fmt.Errorf("failed to get shortcut: %w", err)
	}

	return shortcut, nil
}

// queryShortcuts runs a multi-row shortcut query and scans the results.
func (r *Repository) queryShortcuts(ctx context.Context, query string, args ...any) ([]*model.Shortcut, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts: %w", err)
	}
	defer rows.Close()

	var shortcuts []*model.Shortcut
	for rows.Next() {
		shortcut, err := scanShortcut(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shortcut: %w", err)
		}
		shortcuts = append(shortcuts, shortcut)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shortcuts: %w", err)
	}

	return shortcuts, nil
}

// scanShortcut scans a single row into a Shortcut model.
func scanShortcut(row pgx.Row) (*model.Shortcut, error) {
	var shortcut model.Shortcut
	err := row.Scan(
		&shortcut.ID,
		&shortcut.UserID,
		&shortcut.Title,
		&shortcut.URL,
		&shortcut.Description,
		&shortcut.Category,
		&shortcut.Icon,
		&shortcut.FolderID,
		&shortcut.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &shortcut, nil
}
