package form

import (
	"context"
	"strings"

	"github.com/linkboard/linkboard/internal/model"
)

// FixedLinkWriter is the store surface the fixed-link controller
// submits to. Implemented by *store.FixedLinkStore.
type FixedLinkWriter interface {
	Create(ctx context.Context, draft *model.FixedLink) (*model.FixedLink, error)
	Update(ctx context.Context, id string, patch model.FixedLinkPatch) (*model.FixedLink, error)
}

// FixedLinkInput is one submission of the admin fixed-link form.
type FixedLinkInput struct {
	ID          string
	Title       string
	URL         string
	Description string
	Category    string
	Icon        string
}

// FixedLinkController validates and submits fixed-link forms. The
// routes in front of it are admin-gated; the controller itself only
// cares about fields and the busy guard.
type FixedLinkController struct {
	store FixedLinkWriter
	busy  *busyGuard
}

// NewFixedLinkController creates a FixedLinkController.
func NewFixedLinkController(store FixedLinkWriter) *FixedLinkController {
	return &FixedLinkController{store: store, busy: newBusyGuard()}
}

// Validate checks the submission's fields without touching the store.
func (c *FixedLinkController) Validate(in FixedLinkInput) *ValidationError {
	fields := Errors{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if msg := validateURL(in.URL); msg != "" {
		fields["url"] = msg
	}
	if msg := validateIcon(in.Icon); msg != "" {
		fields["icon"] = msg
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Submit validates the input and delegates to the store.
func (c *FixedLinkController) Submit(ctx context.Context, userID string, in FixedLinkInput) (*model.FixedLink, error) {
	if verr := c.Validate(in); verr != nil {
		return nil, verr
	}
	if err := c.busy.acquire(userID); err != nil {
		return nil, err
	}
	defer c.busy.release(userID)

	title := strings.TrimSpace(in.Title)
	rawURL := strings.TrimSpace(in.URL)

	if in.ID == "" {
		return c.store.Create(ctx, &model.FixedLink{
			Title:       title,
			URL:         rawURL,
			Description: in.Description,
			Category:    in.Category,
			Icon:        in.Icon,
		})
	}

	patch := model.FixedLinkPatch{
		Title:       &title,
		URL:         &rawURL,
		Description: &in.Description,
		Category:    &in.Category,
		Icon:        &in.Icon,
	}
	return c.store.Update(ctx, in.ID, patch)
}
