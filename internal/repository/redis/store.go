// Package redis implements the storefront repositories on Redis. Every
// session-scoped list is one JSON value; writes are full-value overwrites
// guarded by an optimistic version embedded in the document.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// errVersionMismatch aborts a watched transaction when the stored version no
// longer matches the caller's expectation.
var errVersionMismatch = errors.New("version mismatch")

// versionedStore is the shared read/compare-and-set machinery under the list
// repositories. Serialization is centralized here so no widget-facing code
// ever touches raw JSON.
type versionedStore struct {
	client *redis.Client
	logger *slog.Logger
}

// getJSON loads and decodes the value at key. An absent key returns
// (false, nil). A corrupted value fails soft: the parse error is logged and
// the key is treated as absent, so the next successful write overwrites it.
func (s *versionedStore) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.WarnContext(ctx, "stored value is corrupted, treating as empty",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return true, nil
}

// saveIfVersion atomically overwrites key when the stored document's version
// equals expected. The marshal callback receives the next version and returns
// the bytes to store. A version of 0 is expected for creates; a corrupted
// stored value counts as version 0 so it can be overwritten. ttl of 0 stores
// without expiry; otherwise each write slides the TTL forward.
func (s *versionedStore) saveIfVersion(ctx context.Context, key string, expected int64, ttl time.Duration, marshal func(next int64) ([]byte, error)) (bool, error) {
	txf := func(tx *redis.Tx) error {
		current := int64(0)

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var doc struct {
				Version int64 `json:"version"`
			}
			if jerr := json.Unmarshal(data, &doc); jerr == nil {
				current = doc.Version
			}
		case errors.Is(err, redis.Nil):
			// Absent key: current stays 0.
		default:
			return fmt.Errorf("redis get %s: %w", key, err)
		}

		if current != expected {
			return errVersionMismatch
		}

		payload, err := marshal(expected + 1)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errVersionMismatch), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

// delete removes the value at key.
func (s *versionedStore) delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
