// Package model defines domain entities for the application.
package model

import "time"

// Shortcut represents a personal bookmark owned by a single user.
// A shortcut may optionally live inside one folder; FolderID is nil
// for unfiled shortcuts.
type Shortcut struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	FolderID    *string   `json:"folder_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InFolder reports whether the shortcut is assigned to a folder.
func (s *Shortcut) InFolder() bool {
	return s.FolderID != nil && *s.FolderID != ""
}

// ShortcutPatch holds a partial update for a shortcut.
// Nil fields are left unchanged.
type ShortcutPatch struct {
	Title       *string
	URL         *string
	Description *string
	Category    *string
	Icon        *string
	FolderID    *string
	ClearFolder bool
}
