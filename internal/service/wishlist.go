package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/repository"
)

// ProductFetcher is the slice of the catalog client the wishlist needs to
// snapshot a product at add-time.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID string) (*domain.ProductView, error)
}

// WishlistService implements the business logic for wishlist operations.
type WishlistService struct {
	repo    repository.WishlistRepository
	catalog ProductFetcher
	bus     *broadcast.Bus
	logger  *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, catalog ProductFetcher, bus *broadcast.Bus, logger *slog.Logger) *WishlistService {
	return &WishlistService{repo: repo, catalog: catalog, bus: bus, logger: logger}
}

// Get retrieves the wishlist for a session.
func (s *WishlistService) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	list, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return list, nil
}

// Toggle flips membership of a product+variant. Adding snapshots the live
// product so the wishlist row can render without a catalog round trip.
// Returns the updated list and whether the item ended up present.
func (s *WishlistService) Toggle(ctx context.Context, sessionID, productID string, variant domain.VariantSelection) (*domain.Wishlist, bool, error) {
	if sessionID == "" {
		return nil, false, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, false, apperrors.InvalidInput("product id is required")
	}

	key := domain.WishlistKey(productID, variant)

	// The snapshot is only needed when the toggle adds the item, so the
	// catalog is consulted lazily. Removal keeps working through a catalog
	// outage. Fetched at most once even when the save loop retries.
	var added bool
	var snapshot *domain.ProductSnapshot
	list, err := s.mutate(ctx, sessionID, func(w *domain.Wishlist) error {
		if !w.Contains(key) && snapshot == nil {
			view, fetchErr := s.catalog.GetProduct(ctx, productID)
			if fetchErr != nil {
				return fmt.Errorf("snapshot product %s: %w", productID, fetchErr)
			}
			snapshot = &domain.ProductSnapshot{
				Name:     view.Name,
				ImageURL: view.ImageURL,
				Price:    view.Price,
				Rating:   view.Rating,
			}
		}

		item := domain.WishlistItem{
			Key:       key,
			ProductID: productID,
			Variant:   variant,
		}
		if snapshot != nil {
			item.Snapshot = *snapshot
		}

		var toggleErr error
		added, toggleErr = w.Toggle(item)
		if errors.Is(toggleErr, domain.ErrWishlistFull) {
			return apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", domain.MaxWishlistItems))
		}
		return toggleErr
	})
	if err != nil {
		return nil, false, err
	}

	kind := broadcast.ChangeRemoved
	if added {
		kind = broadcast.ChangeAdded
	}
	s.publish(kind, sessionID, key)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("session_id", sessionID),
		slog.String("item_key", key),
		slog.Bool("added", added),
	)
	return list, added, nil
}

// Contains reports whether the session's wishlist holds the given
// product+variant. Linear scan; lists are capped at MaxWishlistItems.
func (s *WishlistService) Contains(ctx context.Context, sessionID, productID string, variant domain.VariantSelection) (string, bool, error) {
	if sessionID == "" {
		return "", false, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return "", false, apperrors.InvalidInput("product id is required")
	}

	key := domain.WishlistKey(productID, variant)
	list, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return "", false, fmt.Errorf("get wishlist: %w", err)
	}
	return key, list.Contains(key), nil
}

// Remove deletes an item by its key.
func (s *WishlistService) Remove(ctx context.Context, sessionID, key string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if key == "" {
		return nil, apperrors.InvalidInput("item key is required")
	}

	list, err := s.mutate(ctx, sessionID, func(w *domain.Wishlist) error {
		if !w.Remove(key) {
			return apperrors.NotFound("wishlist item", key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeRemoved, sessionID, key)

	s.logger.InfoContext(ctx, "wishlist item removed",
		slog.String("session_id", sessionID),
		slog.String("item_key", key),
	)
	return list, nil
}

// Clear empties the session's wishlist.
func (s *WishlistService) Clear(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	list, err := s.mutate(ctx, sessionID, func(w *domain.Wishlist) error {
		w.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(broadcast.ChangeCleared, sessionID, "")

	s.logger.InfoContext(ctx, "wishlist cleared", slog.String("session_id", sessionID))
	return list, nil
}

func (s *WishlistService) mutate(ctx context.Context, sessionID string, apply func(*domain.Wishlist) error) (*domain.Wishlist, error) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		list, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get wishlist: %w", err)
		}
		expected := list.Version

		if err := apply(list); err != nil {
			return nil, err
		}

		ok, err := s.repo.SaveIfVersion(ctx, list, expected)
		if err != nil {
			return nil, fmt.Errorf("save wishlist: %w", err)
		}
		if ok {
			return list, nil
		}

		s.logger.DebugContext(ctx, "wishlist version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}
	return nil, apperrors.Conflict("wishlist was modified concurrently, please retry")
}

func (s *WishlistService) publish(kind broadcast.ChangeKind, sessionID, itemKey string) {
	s.bus.Publish(broadcast.ListChange{
		List:      broadcast.ListWishlist,
		Kind:      kind,
		SessionID: sessionID,
		ItemKey:   itemKey,
	})
}
