package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/linkboard/linkboard/internal/model"
)

// Common errors for fixed-link repository operations.
var (
	ErrFixedLinkNotFound = errors.New("fixed link not found")
)

const fixedLinkColumns = "id, title, url, description, category, icon, created_at, updated_at"

// CreateFixedLink inserts a new fixed link and returns the canonical row.
func (r *Repository) CreateFixedLink(ctx context.Context, link *model.FixedLink) (*model.FixedLink, error) {
	query := `
		INSERT INTO fixed_links (id, title, url, description, category, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + fixedLinkColumns

	created, err := scanFixedLink(r.pool.QueryRow(ctx, query,
		link.ID,
		link.Title,
		link.URL,
		link.Description,
		link.Category,
		link.Icon,
		link.CreatedAt,
		link.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create fixed link: %w", err)
	}

	return created, nil
}

// ListFixedLinks retrieves all fixed links, newest first.
func (r *Repository) ListFixedLinks(ctx context.Context) ([]*model.FixedLink, error) {
	query := `
		SELECT ` + fixedLinkColumns + `
		FROM fixed_links
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed links: %w", err)
	}
	defer rows.Close()

	var links []*model.FixedLink
	for rows.Next() {
		link, err := scanFixedLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixed links: %w", err)
	}

	return links, nil
}

// CountFixedLinks returns the number of fixed links.
// Used at startup to decide whether to seed the default set.
func (r *Repository) CountFixedLinks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fixed_links`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fixed links: %w", err)
	}
	return count, nil
}

// UpdateFixedLink applies a partial update to a fixed link, bumps
// updated_at, and returns the canonical updated row.
func (r *Repository) UpdateFixedLink(ctx context.Context, id string, patch model.FixedLinkPatch) (*model.FixedLink, error) {
	query := `UPDATE fixed_links SET updated_at = $2`
	args := []any{id, time.Now().UTC()}
	argIndex := 3

	if patch.Title != nil {
		query += fmt.Sprintf(", title = $%d", argIndex)
		args = append(args, *patch.Title)
		argIndex++
	}
	if patch.URL != nil {
		query += fmt.Sprintf(", url = $%d", argIndex)
		args = append(args, *patch.URL)
		argIndex++
	}
	if patch.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIndex)
		args = append(args, *patch.Description)
		argIndex++
	}
	if patch.Category != nil {
		query += fmt.Sprintf(", category = $%d", argIndex)
		args = append(args, *patch.Category)
		argIndex++
	}
	if patch.Icon != nil {
		query += fmt.Sprintf(", icon = $%d", argIndex)
		args = append(args, *patch.Icon)
		argIndex++
	}

	query += " WHERE id = $1 RETURNING " + fixedLinkColumns

	updated, err := scanFixedLink(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFixedLinkNotFound
		}
		return nil, fmt.Errorf("failed to update fixed link: %w", err)
	}

	return updated, nil
}

// DeleteFixedLink removes a fixed link.
func (r *Repository) DeleteFixedLink(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM fixed_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fixed link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrFixedLinkNotFound
	}

	return nil
}

// scanFixedLink scans a single row into a FixedLink model.
func scanFixedLink(row pgx.Row) (*model.FixedLink, error) {
	var link model.FixedLink
	err := row.Scan(
		&link.ID,
		&link.Title,
		&link.URL,
		&link.Description,
		&link.Category,
		&link.Icon,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
