package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
)

// ShippingHandler serves the delivery estimator endpoints.
type ShippingHandler struct {
	service *service.ShippingService
	logger  *slog.Logger
}

// NewShippingHandler creates a new shipping HTTP handler.
func NewShippingHandler(svc *service.ShippingService, logger *slog.Logger) *ShippingHandler {
	return &ShippingHandler{service: svc, logger: logger}
}

// Methods handles GET /api/v1/shipping/methods
func (h *ShippingHandler) Methods(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.RateTable()})
}

// Quote handles GET /api/v1/shipping/quote?zone=&method=[&subtotal=]
// Without an explicit subtotal the session's cart subtotal is used.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	zone := q.Get("zone")
	method := q.Get("method")
	if zone == "" || method == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "zone and method are required"},
		})
		return
	}

	if raw := q.Get("subtotal"); raw != "" {
		subtotal, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "subtotal must be an integer amount in paise"},
			})
			return
		}
		quote, err := h.service.Quote(subtotal, zone, method)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quote})
		return
	}

	quote, err := h.service.QuoteForCart(r.Context(), sessionIDFromContext(r.Context()), zone, method)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: quote})
}
