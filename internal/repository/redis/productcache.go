package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/domain"
)

const productViewKeyPrefix = "view:product:"

// ProductViewCache implements repository.ProductViewCache on Redis with a
// fixed TTL. Misses and unreadable entries both report (nil, nil); the
// caller falls through to the upstream catalog.
type ProductViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductViewCache creates a Redis-backed product view cache.
func NewProductViewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductViewCache {
	return &ProductViewCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached view for a product ID, or (nil, nil) on a miss.
func (c *ProductViewCache) Get(ctx context.Context, productID string) (*domain.ProductView, error) {
	data, err := c.client.Get(ctx, productViewKeyPrefix+productID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get product view: %w", err)
	}

	var view domain.ProductView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.WarnContext(ctx, "cached product view is corrupted, treating as miss",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	return &view, nil
}

// Set stores the view under its product ID.
func (c *ProductViewCache) Set(ctx context.Context, view *domain.ProductView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal product view: %w", err)
	}
	if err := c.client.Set(ctx, productViewKeyPrefix+view.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product view: %w", err)
	}
	return nil
}
