package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
)

// SuggestHandler serves the search-box autocomplete endpoint.
type SuggestHandler struct {
	service *service.SuggestService
	logger  *slog.Logger
}

// NewSuggestHandler creates a new suggestion HTTP handler.
func NewSuggestHandler(svc *service.SuggestService, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{service: svc, logger: logger}
}

// Suggest handles GET /api/v1/search/suggest?q=&size=
// An empty q returns the session's recent searches.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	size := 0
	if raw := q.Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}

	result, err := h.service.Suggest(r.Context(), sessionIDFromContext(r.Context()), q.Get("q"), size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
