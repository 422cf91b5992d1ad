package model

import "time"

// Folder represents a named grouping of shortcuts owned by one user.
// Deleting a folder never deletes the shortcuts inside it; contained
// shortcuts are unfiled instead.
type Folder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FolderPatch holds a partial update for a folder.
// Nil fields are left unchanged.
type FolderPatch struct {
	Name        *string
	Description *string
	Icon        *string
}
