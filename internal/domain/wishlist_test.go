package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wishlistItem(productID string, v VariantSelection) WishlistItem {
	return WishlistItem{
		Key:       WishlistKey(productID, v),
		ProductID: productID,
		Variant:   v,
		Snapshot: ProductSnapshot{
			Name:     "Linen Shirt Fabric",
			ImageURL: "https://img.vardhmanmills.example/linen.jpg",
			Price:    79900,
			Rating:   4.5,
		},
		AddedAt: time.Now().UTC(),
	}
}

func TestWishlistKey_NormalizesVariant(t *testing.T) {
	key := WishlistKey("P1", VariantSelection{Color: " Indigo ", Size: "XL"})
	assert.Equal(t, "P1/indigo/xl", key)
}

func TestWishlistKey_NoVariant(t *testing.T) {
	assert.Equal(t, "P1", WishlistKey("P1", VariantSelection{}))
}

func TestWishlist_Toggle_AddsThenRemoves(t *testing.T) {
	wl := NewWishlist("sess-1")
	item := wishlistItem("P1", VariantSelection{Color: "indigo"})

	added, err := wl.Toggle(item)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, wl.Contains(item.Key))

	added, err = wl.Toggle(item)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, wl.Contains(item.Key))
	assert.Empty(t, wl.Items)
}

// Round-trip idempotence: toggling twice restores the surrounding items.
func TestWishlist_Toggle_TwicePreservesOthers(t *testing.T) {
	wl := NewWishlist("sess-1")
	first := wishlistItem("P1", VariantSelection{})
	second := wishlistItem("P2", VariantSelection{Size: "m"})

	_, err := wl.Toggle(first)
	require.NoError(t, err)
	_, err = wl.Toggle(second)
	require.NoError(t, err)

	before := make([]string, len(wl.Items))
	for i, it := range wl.Items {
		before[i] = it.Key
	}

	_, err = wl.Toggle(first)
	require.NoError(t, err)
	_, err = wl.Toggle(first)
	require.NoError(t, err)

	after := make([]string, 0, len(wl.Items))
	for _, it := range wl.Items {
		after = append(after, it.Key)
	}
	// First comes back at the tail; membership is what round-trips.
	assert.ElementsMatch(t, before, after)
}

func TestWishlist_Toggle_CapacityLimit(t *testing.T) {
	wl := NewWishlist("sess-1")
	for i := 0; i < MaxWishlistItems; i++ {
		_, err := wl.Toggle(wishlistItem(fmt.Sprintf("P%d", i), VariantSelection{}))
		require.NoError(t, err)
	}

	_, err := wl.Toggle(wishlistItem("overflow", VariantSelection{}))
	assert.ErrorIs(t, err, ErrWishlistFull)
}

func TestWishlist_Remove(t *testing.T) {
	wl := NewWishlist("sess-1")
	item := wishlistItem("P1", VariantSelection{})
	_, err := wl.Toggle(item)
	require.NoError(t, err)

	assert.True(t, wl.Remove(item.Key))
	assert.False(t, wl.Remove(item.Key))
}
