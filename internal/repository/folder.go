package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linkboard/linkboard/internal/model"
)

// Common errors for folder repository operations.
var (
	ErrFolderNotFound = errors.New("folder not found")
)

const folderColumns = "id, user_id, name, description, icon, created_at, updated_at"

// CreateFolder inserts a new folder and returns the canonical row.
func (r *Repository) CreateFolder(ctx context.Context, folder *model.Folder) (*model.Folder, error) {
	query := `
		INSERT INTO folders (id, user_id, name, description, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + folderColumns

	created, err := scanFolder(r.pool.QueryRow(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Description,
		folder.Icon,
		folder.CreatedAt,
		folder.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return created, nil
}

// ListFolders retrieves a user's folders, newest first.
func (r *Repository) ListFolders(ctx context.Context, userID string) ([]*model.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []*model.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}

	return folders, nil
}

// UpdateFolder applies a partial update to a folder owned by the given
// user, bumps updated_at, and returns the canonical updated row.
func (r *Repository) UpdateFolder(ctx context.Context, id, userID string, patch model.FolderPatch) (*model.Folder, error) {
	query := `UPDATE folders SET updated_at = $3`
	args := []any{id, userID, time.Now().UTC()}
	argIndex := 4

	if patch.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIndex)
		args = append(args, *patch.Name)
		argIndex++
	}
	if patch.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIndex)
		args = append(args, *patch.Description)
		argIndex++
	}
	if patch.Icon != nil {
		query += fmt.Sprintf(", icon = $%d", argIndex)
		args = append(args, *patch.Icon)
		argIndex++
	}

	query += " WHERE id = $1 AND user_id = $2 RETURNING " + folderColumns

	updated, err := scanFolder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}

	return updated, nil
}

// DeleteFolder removes a folder owned by the given user. Contained
// shortcuts are not deleted: their folder reference is nulled out in
// the same transaction, so they reappear as unfiled.
func (r *Repository) DeleteFolder(ctx context.Context, id, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	unfile := `UPDATE shortcuts SET folder_id = NULL WHERE folder_id = $1 AND user_id = $2`
	if _, err := tx.Exec(ctx, unfile, id, userID); err != nil {
		return fmt.Errorf("failed to unfile shortcuts: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFolderNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit folder delete: %w", err)
	}

	return nil
}

// scanFolder scans a single row into a Folder model.
func scanFolder(row pgx.Row) (*model.Folder, error) {
	var folder model.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Description,
		&folder.Icon,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
