package http

import (
	"log/slog"
	"net/http"

	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
)

// HeaderHandler serves the composite header-summary endpoint.
type HeaderHandler struct {
	service *service.HeaderService
	logger  *slog.Logger
}

// NewHeaderHandler creates a new header HTTP handler.
func NewHeaderHandler(svc *service.HeaderService, logger *slog.Logger) *HeaderHandler {
	return &HeaderHandler{service: svc, logger: logger}
}

// Summary handles GET /api/v1/header
func (h *HeaderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
