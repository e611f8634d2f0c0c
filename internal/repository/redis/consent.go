package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/domain"
)

const consentKeyPrefix = "consent:"

// ConsentRepository implements repository.ConsentRepository on Redis.
// Consent records carry no TTL; they live until the shopper clears them.
type ConsentRepository struct {
	store versionedStore
}

// NewConsentRepository creates a Redis-backed consent repository.
func NewConsentRepository(client *redis.Client, logger *slog.Logger) *ConsentRepository {
	return &ConsentRepository{
		store: versionedStore{client: client, logger: logger},
	}
}

// Get retrieves the session's consent record, or (nil, nil) when no decision
// has been recorded (or the stored value is unreadable).
func (r *ConsentRepository) Get(ctx context.Context, sessionID string) (*domain.ConsentRecord, error) {
	var rec domain.ConsentRecord
	found, err := r.store.getJSON(ctx, consentKeyPrefix+sessionID, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// SaveIfVersion overwrites the stored record when its version equals expected.
func (r *ConsentRepository) SaveIfVersion(ctx context.Context, rec *domain.ConsentRecord, expected int64) (bool, error) {
	return r.store.saveIfVersion(ctx, consentKeyPrefix+rec.SessionID, expected, 0, func(next int64) ([]byte, error) {
		rec.Version = next
		return json.Marshal(rec)
	})
}

// Delete removes the session's consent record (the manual clear action).
func (r *ConsentRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.delete(ctx, consentKeyPrefix+sessionID)
}
