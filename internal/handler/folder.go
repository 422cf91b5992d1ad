package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkboard/linkboard/internal/auth"
	"github.com/linkboard/linkboard/internal/form"
	"github.com/linkboard/linkboard/internal/handler/dto"
	"github.com/linkboard/linkboard/internal/repository"
	"github.com/linkboard/linkboard/internal/store"
)

// FolderHandler handles HTTP requests for folder operations.
type FolderHandler struct {
	store  *store.FolderStore
	form   *form.FolderController
	logger *slog.Logger
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(s *store.FolderStore, f *form.FolderController, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{store: s, form: f, logger: logger}
}

// List handles GET /api/v1/folders.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	folders, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToFolderListResponse(folders, h.store.State(userID).String()))
}

// Refresh handles POST /api/v1/folders/refresh.
func (h *FolderHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	folders, err := h.store.Refetch(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToFolderListResponse(folders, h.store.State(userID).String()))
}

// Create handles POST /api/v1/folders.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.SaveFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	folder, err := h.form.Submit(r.Context(), userID, form.FolderInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("folder_created", "folder_id", folder.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToFolderResponse(folder))
}

// Update handles PATCH /api/v1/folders/{id}.
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Folder ID is required")
		return
	}

	var req dto.SaveFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	folder, err := h.form.Submit(r.Context(), userID, form.FolderInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("folder_updated", "folder_id", folder.ID, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.ToFolderResponse(folder))
}

// Delete handles DELETE /api/v1/folders/{id}. Shortcuts inside the
// folder are unfiled, not deleted.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Folder ID is required")
		return
	}

	if err := h.store.Delete(r.Context(), userID, id); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("folder_deleted", "folder_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleError maps store and form errors to HTTP responses.
func (h *FolderHandler) handleError(w http.ResponseWriter, err error) {
	if writeCommonError(w, err) {
		return
	}
	if errors.Is(err, repository.ErrFolderNotFound) {
		writeError(w, http.StatusNotFound, "FOLDER_NOT_FOUND", "Folder not found")
		return
	}
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
