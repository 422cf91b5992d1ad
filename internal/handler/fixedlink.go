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

// FixedLinkHandler handles HTTP requests for the admin-curated fixed
// links. Reads are open to any signed-in user; mutations sit behind
// the admin middleware.
type FixedLinkHandler struct {
	store  *store.FixedLinkStore
	form   *form.FixedLinkController
	logger *slog.Logger
}

// NewFixedLinkHandler creates a new FixedLinkHandler.
func NewFixedLinkHandler(s *store.FixedLinkStore, f *form.FixedLinkController, logger *slog.Logger) *FixedLinkHandler {
	return &FixedLinkHandler{store: s, form: f, logger: logger}
}

// List handles GET /api/v1/fixed-links.
func (h *FixedLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToFixedLinkListResponse(links, h.store.State().String()))
}

// Refresh handles POST /api/v1/fixed-links/refresh.
func (h *FixedLinkHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.Refetch(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToFixedLinkListResponse(links, h.store.State().String()))
}

// Create handles POST /api/v1/fixed-links (admin only).
func (h *FixedLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveFixedLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	link, err := h.form.Submit(r.Context(), auth.UserIDFromContext(r.Context()), form.FixedLinkInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Icon:        req.Icon,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("fixed_link_created",
		"fixed_link_id", link.ID,
		"admin_id", auth.UserIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToFixedLinkResponse(link))
}

// Update handles PATCH /api/v1/fixed-links/{id} (admin only).
func (h *FixedLinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Fixed link ID is required")
		return
	}

	var req dto.SaveFixedLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	link, err := h.form.Submit(r.Context(), auth.UserIDFromContext(r.Context()), form.FixedLinkInput{
		ID:          id,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Icon:        req.Icon,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("fixed_link_updated",
		"fixed_link_id", link.ID,
		"admin_id", auth.UserIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToFixedLinkResponse(link))
}

// Delete handles DELETE /api/v1/fixed-links/{id} (admin only).
func (h *FixedLinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Fixed link ID is required")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("fixed_link_deleted",
		"fixed_link_id", id,
		"admin_id", auth.UserIDFromContext(r.Context()),
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleError maps store and form errors to HTTP responses.
func (h *FixedLinkHandler) handleError(w http.ResponseWriter, err error) {
	if writeCommonError(w, err) {
		return
	}
	if errors.Is(err, repository.ErrFixedLinkNotFound) {
		writeError(w, http.StatusNotFound, "FIXED_LINK_NOT_FOUND", "Fixed link not found")
		return
	}
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
