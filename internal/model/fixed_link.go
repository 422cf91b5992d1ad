package model

import "time"

// FixedLink represents an administrator-curated bookmark visible to all
// users of the organization. Fixed links are not owned by any user.
type FixedLink struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FixedLinkPatch holds a partial update for a fixed link.
// Nil fields are left unchanged.
type FixedLinkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Category    *string
	Icon        *string
}
