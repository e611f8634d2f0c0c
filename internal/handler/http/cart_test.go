package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vardhmanmills/storefront/internal/domain"
)

func addKurta(t *testing.T, env *testEnv, quantity int) *domain.Cart {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", env.token, AddItemRequest{
		ProductID: "prod-1",
		VariantID: "indigo-m",
		Name:      "Handwoven Kurta",
		SKU:       "VM-KUR-001",
		Price:     249900,
		Quantity:  quantity,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart domain.Cart
	decodeData(t, rec, &cart)
	return &cart
}

func TestCartEndpoints_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestCartHandler_AddItem(t *testing.T) {
	env := newTestEnv(t)

	cart := addKurta(t, env, 2)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, env.sessionID, cart.SessionID)
	assert.Equal(t, 2, cart.Summary.ItemCount)
	assert.Equal(t, int64(499800), cart.Summary.Subtotal)

	// Adding the same variant again merges into the existing line.
	cart = addKurta(t, env, 1)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartHandler_AddItem_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", env.token, AddItemRequest{
		ProductID: "prod-1",
		Name:      "Handwoven Kurta",
		Price:     249900,
		Quantity:  2,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestCartHandler_AddItem_RejectsNonJSONBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("product_id=prod-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+env.token)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", errorCode(t, rec))
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	env := newTestEnv(t)
	addKurta(t, env, 2)

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/prod-1/indigo-m", env.token, UpdateQuantityRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart domain.Cart
	decodeData(t, rec, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(249900*5), cart.Summary.Subtotal)
}

func TestCartHandler_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	addKurta(t, env, 2)

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/prod-1/indigo-m", env.token, UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cart domain.Cart
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.Summary.ItemCount)
}

func TestCartHandler_RemoveItem_UnknownLine(t *testing.T) {
	env := newTestEnv(t)
	addKurta(t, env, 1)

	rec := env.do(t, http.MethodDelete, "/api/v1/cart/items/prod-9/unknown", env.token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCartHandler_Clear(t *testing.T) {
	env := newTestEnv(t)
	addKurta(t, env, 2)

	rec := env.do(t, http.MethodDelete, "/api/v1/cart", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart domain.Cart
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)

	// The empty cart persists across requests.
	rec = env.do(t, http.MethodGet, "/api/v1/cart", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestCartEndpoints_IsolatedPerSession(t *testing.T) {
	env := newTestEnv(t)
	addKurta(t, env, 2)

	other, err := env.sessions.Issue()
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", other.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart domain.Cart
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}
