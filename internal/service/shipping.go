package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// ShippingService answers rate lookups for the delivery estimator widget.
type ShippingService struct {
	carts  repository.CartRepository
	table  domain.RateTable
	logger *slog.Logger
}

// NewShippingService creates a shipping service over the given rate table.
func NewShippingService(carts repository.CartRepository, table domain.RateTable, logger *slog.Logger) *ShippingService {
	return &ShippingService{carts: carts, table: table, logger: logger}
}

// RateTable returns the full zone and method table the estimator renders.
func (s *ShippingService) RateTable() domain.RateTable {
	return s.table
}

// Quote computes the shipping cost for an explicit subtotal.
func (s *ShippingService) Quote(subtotal int64, zone, method string) (domain.ShippingQuote, error) {
	quote, err := s.table.Quote(subtotal, zone, method)
	if err != nil {
		return domain.ShippingQuote{}, apperrors.InvalidInput(err.Error())
	}
	return quote, nil
}

// QuoteForCart computes the shipping cost against the session's current
// cart subtotal, so the estimator and the cart can never disagree.
func (s *ShippingService) QuoteForCart(ctx context.Context, sessionID, zone, method string) (domain.ShippingQuote, error) {
	if sessionID == "" {
		return domain.ShippingQuote{}, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("get cart for quote: %w", err)
	}

	quote, err := s.Quote(cart.Summary.Subtotal, zone, method)
	if err != nil {
		return domain.ShippingQuote{}, err
	}

	s.logger.DebugContext(ctx, "shipping quoted",
		slog.String("session_id", sessionID),
		slog.String("zone", zone),
		slog.String("method", method),
		slog.Int64("subtotal", cart.Summary.Subtotal),
		slog.Int64("amount", quote.Amount),
		slog.Bool("free_applied", quote.FreeApplied),
	)
	return quote, nil
}
