package http

import (
	"log/slog"
	"net/http"

	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/validator"
)

// ConsentHandler handles cookie-consent endpoints.
type ConsentHandler struct {
	service *service.ConsentService
	logger  *slog.Logger
}

// NewConsentHandler creates a new consent HTTP handler.
func NewConsentHandler(svc *service.ConsentService, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{service: svc, logger: logger}
}

// SaveConsentRequest is the JSON request body for recording a consent
// decision.
type SaveConsentRequest struct {
	Categories map[string]bool `json:"categories" validate:"required"`
}

// Status handles GET /api/v1/consent
func (h *ConsentHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: status})
}

// Save handles PUT /api/v1/consent
func (h *ConsentHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveConsentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	record, err := h.service.Save(r.Context(), sessionIDFromContext(r.Context()), req.Categories)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: record})
}

// Withdraw handles DELETE /api/v1/consent
func (h *ConsentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Withdraw(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "withdrawn"}})
}
