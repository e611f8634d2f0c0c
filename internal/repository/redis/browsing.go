package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/domain"
)

const browsingKeyPrefix = "browsing:"

// BrowsingRepository implements repository.BrowsingRepository on Redis.
type BrowsingRepository struct {
	store versionedStore
	ttl   time.Duration
}

// NewBrowsingRepository creates a Redis-backed browsing-state repository.
func NewBrowsingRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *BrowsingRepository {
	return &BrowsingRepository{
		store: versionedStore{client: client, logger: logger},
		ttl:   ttl,
	}
}

// Get retrieves the session's browsing state. An absent or unreadable key
// yields empty state at version 0.
func (r *BrowsingRepository) Get(ctx context.Context, sessionID string) (*domain.BrowsingState, error) {
	var state domain.BrowsingState
	found, err := r.store.getJSON(ctx, browsingKeyPrefix+sessionID, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewBrowsingState(sessionID), nil
	}
	if state.Bookmarks == nil {
		state.Bookmarks = []string{}
	}
	if state.RecentSearches == nil {
		state.RecentSearches = []string{}
	}
	return &state, nil
}

// SaveIfVersion overwrites the stored state when its version equals expected.
func (r *BrowsingRepository) SaveIfVersion(ctx context.Context, state *domain.BrowsingState, expected int64) (bool, error) {
	return r.store.saveIfVersion(ctx, browsingKeyPrefix+state.SessionID, expected, r.ttl, func(next int64) ([]byte, error) {
		state.Version = next
		return json.Marshal(state)
	})
}

// Delete removes the session's browsing-state key.
func (r *BrowsingRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, browsingKeyPrefix+sessionID)
}
