package dto

import (
	"time"

	"github.com/linkboard/linkboard/internal/model"
)

// SaveFolderRequest is the body for creating or editing a folder.
type SaveFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// FolderResponse represents a folder in API responses.
type FolderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FolderListResponse represents the folder listing, newest first.
type FolderListResponse struct {
	Data  []FolderResponse `json:"data"`
	State string           `json:"state"`
}

// ToFolderResponse converts a Folder model to its DTO.
func ToFolderResponse(f *model.Folder) *FolderResponse {
	return &FolderResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Icon:        f.Icon,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToFolderListResponse converts a slice of Folder models.
func ToFolderListResponse(folders []*model.Folder, state string) *FolderListResponse {
	responses := make([]FolderResponse, len(folders))
	for i, f := range folders {
		responses[i] = *ToFolderResponse(f)
	}
	return &FolderListResponse{Data: responses, State: state}
}
