package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/domain"
)

const cartKeyPrefix = "cart:"

// CartRepository implements repository.CartRepository on Redis.
type CartRepository struct {
	store versionedStore
	ttl   time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. Writes slide the
// TTL forward.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		store: versionedStore{client: client, logger: logger},
		ttl:   ttl,
	}
}

// Get retrieves the session's cart. An absent or unreadable key yields an
// empty cart at version 0.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	found, err := r.store.getJSON(ctx, cartKeyPrefix+sessionID, &cart)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewCart(sessionID), nil
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// SaveIfVersion overwrites the stored cart when its version equals expected.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int64) (bool, error) {
	return r.store.saveIfVersion(ctx, cartKeyPrefix+cart.SessionID, expected, r.ttl, func(next int64) ([]byte, error) {
		cart.Version = next
		return json.Marshal(cart)
	})
}

// Delete removes the session's cart key.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, cartKeyPrefix+sessionID)
}
