package form

import (
	"context"
	"strings"

	"github.com/linkboard/linkboard/internal/model"
)

// ShortcutWriter is the store surface the shortcut controller submits
// to. Implemented by *store.ShortcutStore.
type ShortcutWriter interface {
	Create(ctx context.Context, userID string, draft *model.Shortcut) (*model.Shortcut, error)
	Update(ctx context.Context, userID, id string, patch model.ShortcutPatch) (*model.Shortcut, error)
}

// ShortcutInput is one submission of the shortcut form. An empty ID
// means create; a set ID means edit of that shortcut.
type ShortcutInput struct {
	ID          string
	Title       string
	URL         string
	Description string
	Category    string
	Icon        string
	FolderID    *string
	ClearFolder bool
}

// ShortcutController validates and submits shortcut forms.
type ShortcutController struct {
	store ShortcutWriter
	busy  *busyGuard
}

// NewShortcutController creates a ShortcutController.
func NewShortcutController(store ShortcutWriter) *ShortcutController {
	return &ShortcutController{store: store, busy: newBusyGuard()}
}

// Validate checks the submission's fields without touching the store.
// Returns nil when the input is valid.
func (c *ShortcutController) Validate(in ShortcutInput) *ValidationError {
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

// Submit validates the input and delegates to the store. A submit
// while the user's previous one is still in flight returns
// ErrSubmitInFlight without reaching the store.
func (c *ShortcutController) Submit(ctx context.Context, userID string, in ShortcutInput) (*model.Shortcut, error) {
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
		return c.store.Create(ctx, userID, &model.Shortcut{
			Title:       title,
			URL:         rawURL,
			Description: in.Description,
			Category:    in.Category,
			Icon:        in.Icon,
			FolderID:    in.FolderID,
		})
	}

	patch := model.ShortcutPatch{
		Title:       &title,
		URL:         &rawURL,
		Description: &in.Description,
		Category:    &in.Category,
		Icon:        &in.Icon,
		FolderID:    in.FolderID,
		ClearFolder: in.ClearFolder,
	}
	return c.store.Update(ctx, userID, in.ID, patch)
}
