package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vardhmanmills/storefront/internal/domain"
)

type toggleEnvelope struct {
	Wishlist *domain.Wishlist `json:"wishlist"`
	Added    bool             `json:"added"`
}

func toggleKurta(t *testing.T, env *testEnv) toggleEnvelope {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", env.token, ToggleRequest{
		ProductID: "prod-1",
		Color:     "indigo",
		Size:      "m",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp toggleEnvelope
	decodeData(t, rec, &resp)
	return resp
}

func TestWishlistHandler_Toggle_AddsWithSnapshot(t *testing.T) {
	env := newTestEnv(t)

	resp := toggleKurta(t, env)

	assert.True(t, resp.Added)
	require.Len(t, resp.Wishlist.Items, 1)
	item := resp.Wishlist.Items[0]
	assert.Equal(t, "prod-1/indigo/m", item.Key)
	assert.Equal(t, "Handwoven Kurta", item.Snapshot.Name)
	assert.Equal(t, int64(249900), item.Snapshot.Price)
	assert.False(t, item.AddedAt.IsZero())
}

func TestWishlistHandler_Toggle_SecondCallRemoves(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	resp := toggleKurta(t, env)

	assert.False(t, resp.Added)
	assert.Empty(t, resp.Wishlist.Items)
}

func TestWishlistHandler_Toggle_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/toggle", env.token, ToggleRequest{
		ProductID: "prod-missing",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestWishlistHandler_Contains(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/wishlist/contains/prod-1?color=indigo&size=m", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp containsResponse
	decodeData(t, rec, &resp)
	assert.True(t, resp.InWishlist)
	assert.Equal(t, "prod-1", resp.ProductID)
	assert.Equal(t, "prod-1/indigo/m", resp.Key)
}

func TestWishlistHandler_Contains_DifferentVariantAbsent(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/wishlist/contains/prod-1?color=rust", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp containsResponse
	decodeData(t, rec, &resp)
	assert.False(t, resp.InWishlist)
}

func TestWishlistHandler_RemoveItem_KeyWithSlashes(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/wishlist/items/prod-1/indigo/m", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list domain.Wishlist
	decodeData(t, rec, &list)
	assert.Empty(t, list.Items)
}

func TestWishlistHandler_RemoveItem_Unknown(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/wishlist/items/prod-2/white/s", env.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestWishlistHandler_Clear(t *testing.T) {
	env := newTestEnv(t)
	toggleKurta(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/wishlist", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list domain.Wishlist
	decodeData(t, rec, &list)
	assert.Empty(t, list.Items)
}
