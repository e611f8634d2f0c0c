// Package service implements the storefront's business logic on top of the
// repository ports. Mutations on session lists use optimistic locking with a
// bounded in-service retry before surfacing a conflict.
package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// saveAttempts is how many times a mutation re-reads and re-applies itself
// after a version mismatch before giving up with a conflict.
const saveAttempts = 3

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Price     int64  `json:"price" validate:"required,gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	ImageURL  string `json:"image_url"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo   repository.CartRepository
	bus    *broadcast.Bus
	logger *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, bus *broadcast.Bus, logger *slog.Logger) *CartService {
	return &CartService{repo: repo, bus: bus, logger: logger}
}

// Get retrieves the cart for a session. A session with no stored cart gets
// an empty one.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds an item to the session's cart, merging with an existing line
// for the same product+variant.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.VariantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > domain.MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", domain.MaxQuantityPerLine))
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Price > domain.MaxPricePaise {
		return nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d paise", domain.MaxPricePaise))
	}

	item := domain.CartItem{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Name:      input.Name,
		SKU:       input.SKU,
		Price:     input.Price,
		Quantity:  input.Quantity,
		ImageURL:  input.ImageURL,
	}

	cart, err := s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if addErr := c.AddItem(item); addErr != nil {
			switch addErr {
			case domain.ErrQuantityLimit:
				return apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", domain.MaxQuantityPerLine))
			case domain.ErrLineLimit:
				return apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", domain.MaxLinesPerCart))
			}
			return addErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeAdded, sessionID, input.ProductID+"/"+input.VariantID)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.String("variant_id", input.VariantID),
		slog.Int("quantity", input.Quantity),
	)
	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line. Quantity zero
// removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID, variantID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > domain.MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", domain.MaxQuantityPerLine))
	}

	cart, err := s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if !c.SetQuantity(productID, variantID, quantity) {
			return apperrors.NotFound("cart item", productID+"/"+variantID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	kind := broadcast.ChangeUpdated
	if quantity == 0 {
		kind = broadcast.ChangeRemoved
	}
	s.publish(kind, sessionID, productID+"/"+variantID)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)
	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, variantID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}

	cart, err := s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if !c.RemoveItem(productID, variantID) {
			return apperrors.NotFound("cart item", productID+"/"+variantID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeRemoved, sessionID, productID+"/"+variantID)

	s.logger.InfoContext(ctx, "cart line removed",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant_id", variantID),
	)
	return cart, nil
}

// Clear empties the session's cart. The cleared cart is persisted so the
// zeroed summary survives the next read.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeCleared, sessionID, "")

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return cart, nil
}

// mutate runs the read-modify-write cycle with optimistic locking, retrying
// a fresh read on version mismatch up to saveAttempts times.
func (s *CartService) mutate(ctx context.Context, sessionID string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		cart, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		expected := cart.Version

		if err := apply(cart); err != nil {
			return nil, err
		}

		ok, err := s.repo.SaveIfVersion(ctx, cart, expected)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if ok {
			return cart, nil
		}

		s.logger.DebugContext(ctx, "cart version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}
	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

func (s *CartService) publish(kind broadcast.ChangeKind, sessionID, itemKey string) {
	s.bus.Publish(broadcast.ListChange{
		List:      broadcast.ListCart,
		Kind:      kind,
		SessionID: sessionID,
		ItemKey:   itemKey,
	})
}
