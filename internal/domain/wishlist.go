package domain

import (
	"strings"
	"time"
)

// MaxWishlistItems is the maximum number of items a wishlist can hold.
const MaxWishlistItems = 100

// Wishlist is the session-scoped list of saved products.
type Wishlist struct {
	SessionID string         `json:"session_id"`
	Items     []WishlistItem `json:"items"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WishlistItem is a saved product with the variant the shopper selected and
// a snapshot of its display fields captured at add-time. The snapshot may go
// stale against the live catalog; it is never reconciled.
type WishlistItem struct {
	Key       string           `json:"key"`
	ProductID string           `json:"product_id"`
	Variant   VariantSelection `json:"variant"`
	Snapshot  ProductSnapshot  `json:"snapshot"`
	AddedAt   time.Time        `json:"added_at"`
}

// VariantSelection holds the attributes the shopper picked on the product card.
type VariantSelection struct {
	Color  string `json:"color,omitempty"`
	Size   string `json:"size,omitempty"`
	Fabric string `json:"fabric,omitempty"`
}

// ProductSnapshot caches the display fields a wishlist row renders.
type ProductSnapshot struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url,omitempty"`
	Price    int64   `json:"price"`
	Rating   float64 `json:"rating,omitempty"`
}

// WishlistKey derives the uniqueness key for a product+variant combination:
// the product ID joined with the lowercased variant attributes.
func WishlistKey(productID string, v VariantSelection) string {
	parts := []string{productID}
	for _, attr := range []string{v.Color, v.Size, v.Fabric} {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr != "" {
			parts = append(parts, attr)
		}
	}
	return strings.Join(parts, "/")
}

// NewWishlist creates an empty wishlist for the given session.
func NewWishlist(sessionID string) *Wishlist {
	now := time.Now().UTC()
	return &Wishlist{
		SessionID: sessionID,
		Items:     []WishlistItem{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Contains reports whether the list holds an item with the given key.
func (w *Wishlist) Contains(key string) bool {
	for i := range w.Items {
		if w.Items[i].Key == key {
			return true
		}
	}
	return false
}

// Toggle flips membership of the given item. Present items are filtered out;
// absent items are appended. Returns true when the item was added. Toggling
// twice restores the original list.
func (w *Wishlist) Toggle(item WishlistItem) (added bool, err error) {
	if w.Contains(item.Key) {
		w.remove(item.Key)
		w.UpdatedAt = time.Now().UTC()
		return false, nil
	}
	if len(w.Items) >= MaxWishlistItems {
		return false, ErrWishlistFull
	}
	item.AddedAt = time.Now().UTC()
	w.Items = append(w.Items, item)
	w.UpdatedAt = item.AddedAt
	return true, nil
}

// Remove filters out the item with the given key. Returns false when absent.
func (w *Wishlist) Remove(key string) bool {
	if !w.Contains(key) {
		return false
	}
	w.remove(key)
	w.UpdatedAt = time.Now().UTC()
	return true
}

// Clear empties the list.
func (w *Wishlist) Clear() {
	w.Items = []WishlistItem{}
	w.UpdatedAt = time.Now().UTC()
}

func (w *Wishlist) remove(key string) {
	kept := w.Items[:0]
	for _, item := range w.Items {
		if item.Key != key {
			kept = append(kept, item)
		}
	}
	w.Items = kept
}
