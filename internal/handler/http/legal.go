package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vardhmanmills/storefront/internal/legal"
	"github.com/vardhmanmills/storefront/pkg/httputil"
)

// LegalHandler serves the policy pages.
type LegalHandler struct {
	store  *legal.Store
	logger *slog.Logger
}

// NewLegalHandler creates a new legal-pages HTTP handler.
func NewLegalHandler(store *legal.Store, logger *slog.Logger) *LegalHandler {
	return &LegalHandler{store: store, logger: logger}
}

// List handles GET /api/v1/pages
func (h *LegalHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.List()})
}

// Get handles GET /api/v1/pages/{slug}
func (h *LegalHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.Get(chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}
