package service

import (
	"context"
	"testing"
	"time"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, r := e.merchant(t, nil)
	_, other := e.merchant(t, nil)

	created, err := e.productSvc.Create(ctx, r.ID, &dto.CreateProductRequest{Name: " Pão de Queijo ", PriceCents: 450})
	require.NoError(t, err)
	assert.Equal(t, "Pão de Queijo", created.Name)
	assert.True(t, created.Active)

	_, err = e.productSvc.Get(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	updated, err := e.productSvc.Update(ctx, r.ID, created.ID, &dto.UpdateProductRequest{PriceCents: ptr(int64(500)), Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.PriceCents)
	assert.False(t, updated.Active)

	list, err := e.productSvc.List(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// storefront only shows active products
	public, err := e.restaurantSvc.ListPublicProducts(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, public)

	require.NoError(t, e.productSvc.Delete(ctx, r.ID, created.ID))
	assert.ErrorIs(t, e.productSvc.Delete(ctx, r.ID, created.ID), ErrProductNotFound)
}

func TestDeleteProduct_ReferencedByOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	_, r := e.merchant(t, trialUntil(now.AddDate(0, 0, 2)))
	p := e.product(t, r.ID, "Marmita", 1800)

	_, err := e.orderSvc.PlaceOrder(ctx, &PlaceOrderInput{
		RestaurantID: r.ID,
		Items:        []domain.LineRequest{{ProductID: p.ID, Quantity: 1}},
	}, now)
	require.NoError(t, err)

	err = e.productSvc.Delete(ctx, r.ID, p.ID)
	assert.ErrorIs(t, err, ErrProductInUse)

	still, err := e.productSvc.Get(ctx, r.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, still.ID)
}
