package form

import (
	"context"
	"strings"

	"github.com/linkboard/linkboard/internal/model"
)

// FolderWriter is the store surface the folder controller submits to.
// Implemented by *store.FolderStore.
type FolderWriter interface {
	Create(ctx context.Context, userID string, draft *model.Folder) (*model.Folder, error)
	Update(ctx context.Context, userID, id string, patch model.FolderPatch) (*model.Folder, error)
}

// FolderInput is one submission of the folder form.
type FolderInput struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

// FolderController validates and submits folder forms.
type FolderController struct {
	store FolderWriter
	busy  *busyGuard
}

// NewFolderController creates a FolderController.
func NewFolderController(store FolderWriter) *FolderController {
	return &FolderController{store: store, busy: newBusyGuard()}
}

// Validate checks the submission's fields without touching the store.
func (c *FolderController) Validate(in FolderInput) *ValidationError {
	fields := Errors{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
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
func (c *FolderController) Submit(ctx context.Context, userID string, in FolderInput) (*model.Folder, error) {
	if verr := c.Validate(in); verr != nil {
		return nil, verr
	}
	if err := c.busy.acquire(userID); err != nil {
		return nil, err
	}
	defer c.busy.release(userID)

	name := strings.TrimSpace(in.Name)

	if in.ID == "" {
		return c.store.Create(ctx, userID, &model.Folder{
			Name:        name,
			Description: in.Description,
			Icon:        in.Icon,
		})
	}

	patch := model.FolderPatch{
		Name:        &name,
		Description: &in.Description,
		Icon:        &in.Icon,
	}
	return c.store.Update(ctx, userID, in.ID, patch)
}
