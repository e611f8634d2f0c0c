package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/validator"
)

// BrowsingHandler handles bookmarks and recent-search endpoints.
type BrowsingHandler struct {
	service *service.BrowsingService
	logger  *slog.Logger
}

// NewBrowsingHandler creates a new browsing HTTP handler.
func NewBrowsingHandler(svc *service.BrowsingService, logger *slog.Logger) *BrowsingHandler {
	return &BrowsingHandler{service: svc, logger: logger}
}

// AddBookmarkRequest is the JSON request body for bookmarking a page.
type AddBookmarkRequest struct {
	Slug string `json:"slug" validate:"required"`
}

// RecordSearchRequest is the JSON request body for recording a search.
type RecordSearchRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

// Get handles GET /api/v1/browsing
func (h *BrowsingHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Get(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// AddBookmark handles POST /api/v1/bookmarks
func (h *BrowsingHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req AddBookmarkRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state, err := h.service.AddBookmark(r.Context(), sessionIDFromContext(r.Context()), req.Slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// Bookmarks handles GET /api/v1/bookmarks
func (h *BrowsingHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.service.Bookmarks(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: slugs})
}

// ClearBookmarks handles DELETE /api/v1/bookmarks
func (h *BrowsingHandler) ClearBookmarks(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ClearBookmarks(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// RemoveBookmark handles DELETE /api/v1/bookmarks/{slug}
func (h *BrowsingHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.RemoveBookmark(r.Context(), sessionIDFromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// RecordSearch handles POST /api/v1/searches/recent
func (h *BrowsingHandler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	var req RecordSearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state, err := h.service.RecordSearch(r.Context(), sessionIDFromContext(r.Context()), req.Query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// RecentSearches handles GET /api/v1/searches/recent
func (h *BrowsingHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.service.RecentSearches(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: searches})
}

// ClearRecentSearches handles DELETE /api/v1/searches/recent
func (h *BrowsingHandler) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ClearRecentSearches(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}
