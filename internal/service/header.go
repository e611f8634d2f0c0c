package service

import (
	"context"
	"log/slog"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/repository"
)

// HeaderSummary is the single payload the page header renders: cart badge,
// wishlist badge, and the notification bell.
type HeaderSummary struct {
	Cart                CartBadge `json:"cart"`
	WishlistCount       int       `json:"wishlist_count"`
	UnreadNotifications int       `json:"unread_notifications"`
}

// CartBadge is the cart slice of the header summary.
type CartBadge struct {
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
	Currency  string `json:"currency"`
}

// HeaderService composes the header summary from the session lists. Each
// leg fails soft: a broken dependency zeroes its own badge and the rest of
// the header still renders.
type HeaderService struct {
	carts         repository.CartRepository
	wishlists     repository.WishlistRepository
	notifications repository.NotificationRepository
	logger        *slog.Logger
}

// NewHeaderService creates a new header service.
func NewHeaderService(carts repository.CartRepository, wishlists repository.WishlistRepository, notifications repository.NotificationRepository, logger *slog.Logger) *HeaderService {
	return &HeaderService{
		carts:         carts,
		wishlists:     wishlists,
		notifications: notifications,
		logger:        logger,
	}
}

// Summary returns the composite header payload for a session.
func (s *HeaderService) Summary(ctx context.Context, sessionID string) (*HeaderSummary, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	summary := &HeaderSummary{
		Cart: CartBadge{Currency: "INR"},
	}

	if cart, err := s.carts.Get(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "header cart lookup failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else {
		summary.Cart.ItemCount = cart.Summary.ItemCount
		summary.Cart.Subtotal = cart.Summary.Subtotal
		summary.Cart.Currency = cart.Currency
	}

	if list, err := s.wishlists.Get(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "header wishlist lookup failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else {
		summary.WishlistCount = len(list.Items)
	}

	if unread, err := s.notifications.UnreadCount(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "header unread-count lookup failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else {
		summary.UnreadNotifications = unread
	}

	return summary, nil
}
