package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{service: svc, logger: logger}
}

// ToggleRequest is the JSON request body for toggling a wishlist item.
type ToggleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Fabric    string `json:"fabric"`
}

// toggleResponse wraps the list with the direction the toggle took.
type toggleResponse struct {
	Wishlist *domain.Wishlist `json:"wishlist"`
	Added    bool             `json:"added"`
}

// Get handles GET /api/v1/wishlist
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Get(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	variant := domain.VariantSelection{Color: req.Color, Size: req.Size, Fabric: req.Fabric}
	list, added, err := h.service.Toggle(r.Context(), sessionIDFromContext(r.Context()), req.ProductID, variant)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toggleResponse{Wishlist: list, Added: added}})
}

// containsResponse answers the product-card membership check.
type containsResponse struct {
	ProductID  string `json:"product_id"`
	Key        string `json:"key"`
	InWishlist bool   `json:"in_wishlist"`
}

// Contains handles GET /api/v1/wishlist/contains/{productID} with optional
// color/size/fabric query parameters selecting the variant.
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	variant := domain.VariantSelection{
		Color:  r.URL.Query().Get("color"),
		Size:   r.URL.Query().Get("size"),
		Fabric: r.URL.Query().Get("fabric"),
	}

	key, present, err := h.service.Contains(r.Context(), sessionIDFromContext(r.Context()), productID, variant)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: containsResponse{
		ProductID:  productID,
		Key:        key,
		InWishlist: present,
	}})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/* where the wildcard is
// the item key (which contains slashes, e.g. prod-1/indigo/xl).
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	list, err := h.service.Remove(r.Context(), sessionIDFromContext(r.Context()), key)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Clear(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}
