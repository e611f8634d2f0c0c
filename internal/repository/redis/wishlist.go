package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/domain"
)

const wishlistKeyPrefix = "wishlist:"

// WishlistRepository implements repository.WishlistRepository on Redis.
type WishlistRepository struct {
	store versionedStore
	ttl   time.Duration
}

// NewWishlistRepository creates a Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *WishlistRepository {
	return &WishlistRepository{
		store: versionedStore{client: client, logger: logger},
		ttl:   ttl,
	}
}

// Get retrieves the session's wishlist. An absent or unreadable key yields
// an empty wishlist at version 0.
func (r *WishlistRepository) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	var wl domain.Wishlist
	found, err := r.store.getJSON(ctx, wishlistKeyPrefix+sessionID, &wl)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewWishlist(sessionID), nil
	}
	if wl.Items == nil {
		wl.Items = []domain.WishlistItem{}
	}
	return &wl, nil
}

// SaveIfVersion overwrites the stored wishlist when its version equals expected.
func (r *WishlistRepository) SaveIfVersion(ctx context.Context, wl *domain.Wishlist, expected int64) (bool, error) {
	return r.store.saveIfVersion(ctx, wishlistKeyPrefix+wl.SessionID, expected, r.ttl, func(next int64) ([]byte, error) {
		wl.Version = next
		return json.Marshal(wl)
	})
}

// Delete removes the session's wishlist key.
func (r *WishlistRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, wishlistKeyPrefix+sessionID)
}
