package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vardhmanmills/storefront/pkg/errors"

	"github.com/vardhmanmills/storefront/internal/domain"
)

func TestShippingService_QuoteForCart(t *testing.T) {
	carts := new(mockCartRepository)
	svc := NewShippingService(carts, domain.DefaultRateTable(), newTestLogger())

	cart := domain.NewCart("sess-1")
	require.NoError(t, cart.AddItem(domain.CartItem{
		ProductID: "prod-1", VariantID: "var-1", Name: "Cotton Voile", SKU: "CV-001", Price: 50_000, Quantity: 2,
	}))

	carts.On("Get", mock.Anything, "sess-1").Return(cart, nil)

	// Subtotal 100,000 paise clears the metro 99,900 threshold.
	quote, err := svc.QuoteForCart(context.Background(), "sess-1", "in-metro", "standard")
	require.NoError(t, err)
	assert.True(t, quote.FreeApplied)
	assert.Equal(t, int64(0), quote.Amount)
}

func TestShippingService_Quote_UnknownZone(t *testing.T) {
	svc := NewShippingService(new(mockCartRepository), domain.DefaultRateTable(), newTestLogger())

	_, err := svc.Quote(1000, "eu-west", "standard")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestShippingService_Quote_BelowThresholdCharges(t *testing.T) {
	svc := NewShippingService(new(mockCartRepository), domain.DefaultRateTable(), newTestLogger())

	quote, err := svc.Quote(99_899, "in-metro", "express")
	require.NoError(t, err)
	assert.False(t, quote.FreeApplied)
	assert.Equal(t, int64(9_900), quote.Amount)
	assert.Equal(t, int64(99_900), quote.Threshold)
}
