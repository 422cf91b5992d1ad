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

// ShortcutHandler handles HTTP requests for shortcut operations.
type ShortcutHandler struct {
	store  *store.ShortcutStore
	form   *form.ShortcutController
	logger *slog.Logger
}

// NewShortcutHandler creates a new ShortcutHandler.
func NewShortcutHandler(s *store.ShortcutStore, f *form.ShortcutController, logger *slog.Logger) *ShortcutHandler {
	return &ShortcutHandler{store: s, form: f, logger: logger}
}

// List handles GET /api/v1/shortcuts. Without a query parameter it
// returns the user's unfiled shortcuts; with ?folder=<id> it returns
// the shortcuts inside that folder.
func (h *ShortcutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	if folderID := r.URL.Query().Get("folder"); folderID != "" {
		shortcuts, err := h.store.ListFolder(r.Context(), userID, folderID)
		if err != nil {
			h.handleError(w, err)
			return
		}
		// Pass-through listing, no mirror behind it and no state to report.
		writeJSON(w, http.StatusOK, dto.ToShortcutListResponse(shortcuts, ""))
		return
	}

	shortcuts, err := h.store.List(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToShortcutListResponse(shortcuts, h.store.State(userID).String()))
}

// Refresh handles POST /api/v1/shortcuts/refresh.
func (h *ShortcutHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	shortcuts, err := h.store.Refetch(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToShortcutListResponse(shortcuts, h.store.State(userID).String()))
}

// Create handles POST /api/v1/shortcuts.
func (h *ShortcutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.SaveShortcutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	shortcut, err := h.form.Submit(r.Context(), userID, form.ShortcutInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Icon:        req.Icon,
		FolderID:    req.FolderID,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("shortcut_created",
		"shortcut_id", shortcut.ID,
		"user_id", userID,
		"in_folder", shortcut.InFolder(),
	)

	writeJSON(w, http.StatusCreated, dto.ToShortcutResponse(shortcut))
}

// Update handles PATCH /api/v1/shortcuts/{id}.
func (h *ShortcutHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Shortcut ID is required")
		return
	}

	var req dto.SaveShortcutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	shortcut, err := h.form.Submit(r.Context(), userID, form.ShortcutInput{
		ID:          id,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Icon:        req.Icon,
		FolderID:    req.FolderID,
		ClearFolder: req.ClearFolder,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("shortcut_updated",
		"shortcut_id", shortcut.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToShortcutResponse(shortcut))
}

// Delete handles DELETE /api/v1/shortcuts/{id}.
func (h *ShortcutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Shortcut ID is required")
		return
	}

	if err := h.store.Delete(r.Context(), userID, id); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("shortcut_deleted", "shortcut_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleError maps store and form errors to HTTP responses.
func (h *ShortcutHandler) handleError(w http.ResponseWriter, err error) {
	if writeCommonError(w, err) {
		return
	}
	if errors.Is(err, repository.ErrShortcutNotFound) {
		writeError(w, http.StatusNotFound, "SHORTCUT_NOT_FOUND", "Shortcut not found")
		return
	}
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
