package dto

import (
	"time"

	"github.com/linkboard/linkboard/internal/model"
)

// SaveFixedLinkRequest is the body for creating or editing a fixed link.
type SaveFixedLinkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// FixedLinkResponse represents a fixed link in API responses.
type FixedLinkResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FixedLinkListResponse represents the fixed-link listing, newest first.
type FixedLinkListResponse struct {
	Data  []FixedLinkResponse `json:"data"`
	State string              `json:"state"`
}

// ToFixedLinkResponse converts a FixedLink model to its DTO.
func ToFixedLinkResponse(l *model.FixedLink) *FixedLinkResponse {
	return &FixedLinkResponse{
		ID:          l.ID,
		Title:       l.Title,
		URL:         l.URL,
		Description: l.Description,
		Category:    l.Category,
		Icon:        l.Icon,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ToFixedLinkListResponse converts a slice of FixedLink models.
func ToFixedLinkListResponse(links []*model.FixedLink, state string) *FixedLinkListResponse {
	responses := make([]FixedLinkResponse, len(links))
	for i, l := range links {
		responses[i] = *ToFixedLinkResponse(l)
	}
	return &FixedLinkListResponse{Data: responses, State: state}
}
