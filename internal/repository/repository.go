// Package repository defines the persistence ports for the storefront
// service. Serialization lives entirely inside the implementations; callers
// only ever see domain types.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vardhmanmills/storefront/internal/domain"
)

// CartRepository persists session carts. Get returns an empty cart (version
// 0) for an absent or unreadable key, never an error for those cases.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion overwrites the stored cart only when its current version
	// equals expected. On success the cart's Version is bumped and true is
	// returned; a mismatch returns (false, nil) so the caller can retry.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int64) (bool, error)

	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository persists session wishlists with the same optimistic
// versioning contract as CartRepository.
type WishlistRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Wishlist, error)
	SaveIfVersion(ctx context.Context, wishlist *domain.Wishlist, expected int64) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// BrowsingRepository persists per-session bookmarks and recent searches.
type BrowsingRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.BrowsingState, error)
	SaveIfVersion(ctx context.Context, state *domain.BrowsingState, expected int64) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// ConsentRepository persists cookie-consent records. Get returns (nil, nil)
// when no decision has been recorded.
type ConsentRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.ConsentRecord, error)
	SaveIfVersion(ctx context.Context, record *domain.ConsentRecord, expected int64) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// ProductViewCache caches normalized product views. Get returns (nil, nil)
// on a miss.
type ProductViewCache interface {
	Get(ctx context.Context, productID string) (*domain.ProductView, error)
	Set(ctx context.Context, view *domain.ProductView) error
}

// ContactRepository stores contact-form inquiries and their attachments.
type ContactRepository interface {
	Create(ctx context.Context, inquiry *domain.ContactInquiry) error
	GetByReference(ctx context.Context, reference string) (*domain.ContactInquiry, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.ContactInquiry, int, error)
}

// NotificationRepository stores the per-session notification inbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, sessionID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, sessionID string) (int64, error)
	UnreadCount(ctx context.Context, sessionID string) (int, error)
}
