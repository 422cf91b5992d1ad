// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/linkboard/linkboard/internal/model"
)

// SaveShortcutRequest is the body for creating or editing a shortcut.
type SaveShortcutRequest struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	FolderID    *string `json:"folder_id,omitempty"`
	ClearFolder bool    `json:"clear_folder,omitempty"`
}

// ShortcutResponse represents a shortcut in API responses.
type ShortcutResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	FolderID    *string   `json:"folder_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortcutListResponse represents the shortcut listing, newest first.
// State reports the mirror lifecycle for the unfiled listing; folder
// listings go straight through to the database and carry no state.
type ShortcutListResponse struct {
	Data  []ShortcutResponse `json:"data"`
	State string             `json:"state,omitempty"`
}

// ToShortcutResponse converts a Shortcut model to its DTO.
func ToShortcutResponse(s *model.Shortcut) *ShortcutResponse {
	return &ShortcutResponse{
		ID:          s.ID,
		Title:       s.Title,
		URL:         s.URL,
		Description: s.Description,
		Category:    s.Category,
		Icon:        s.Icon,
		FolderID:    s.FolderID,
		CreatedAt:   s.CreatedAt,
	}
}

// ToShortcutListResponse converts a slice of Shortcut models.
func ToShortcutListResponse(shortcuts []*model.Shortcut, state string) *ShortcutListResponse {
	responses := make([]ShortcutResponse, len(shortcuts))
	for i, s := range shortcuts {
		responses[i] = *ToShortcutResponse(s)
	}
	return &ShortcutListResponse{Data: responses, State: state}
}
