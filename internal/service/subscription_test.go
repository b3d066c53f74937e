package service

import (
	"context"
	"testing"
	"time"

	"cardapiopro-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireActive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	user, r := e.merchant(t, trialUntil(now.AddDate(0, 0, 1)))

	restaurant, sub, err := e.subscriptionSvc.RequireActive(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, r.ID, restaurant.ID)
	assert.Equal(t, model.SubscriptionTrial, sub.Status)

	_, _, err = e.subscriptionSvc.RequireActive(ctx, "nobody", now)
	assert.ErrorIs(t, err, ErrNoRestaurant)
}

func TestRequireActive_BackfillsMissingTrial(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()
	user, r := e.merchant(t, nil)

	_, sub, err := e.subscriptionSvc.RequireActive(context.Background(), user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionTrial, sub.Status)
	assert.WithinDuration(t, now.AddDate(0, 0, 7), *sub.TrialEndsAt, time.Second)
	assert.Equal(t, sub.ID, e.subscriptionOf(t, r.ID).ID)
}

func TestRequireActive_PersistsExpiryOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	user, r := e.merchant(t, trialUntil(now.Add(-time.Minute)))

	_, _, err := e.subscriptionSvc.RequireActive(ctx, user.ID, now)
	var gate *SubscriptionGateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, GateSubscriptionExpired, gate.Code)
	require.NotNil(t, gate.Subscription)
	assert.Equal(t, model.SubscriptionTrial, gate.Subscription.Status)

	first := e.subscriptionOf(t, r.ID)
	assert.Equal(t, model.SubscriptionExpired, first.Status)

	_, _, err = e.subscriptionSvc.RequireActive(ctx, user.ID, now.Add(time.Hour))
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, model.SubscriptionExpired, gate.Subscription.Status)

	second := e.subscriptionOf(t, r.ID)
	assert.Equal(t, model.SubscriptionExpired, second.Status)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
}

func TestRequireActive_PaidPeriodBoundary(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()
	end := now.Add(time.Hour)
	user, _ := e.merchant(t, activeUntil(end))

	_, _, err := e.subscriptionSvc.RequireActive(context.Background(), user.ID, end)
	require.NoError(t, err)

	_, _, err = e.subscriptionSvc.RequireActive(context.Background(), user.ID, end.Add(time.Second))
	var gate *SubscriptionGateError
	require.ErrorAs(t, err, &gate)
}

func TestBackfillTrials(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	_, bare1 := e.merchant(t, nil)
	_, bare2 := e.merchant(t, nil)
	_, paid := e.merchant(t, activeUntil(now.AddDate(0, 1, 0)))

	n, err := e.subscriptionSvc.BackfillTrials(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, r := range []*model.Restaurant{bare1, bare2} {
		assert.Equal(t, model.SubscriptionTrial, e.subscriptionOf(t, r.ID).Status)
	}
	assert.Equal(t, model.SubscriptionActive, e.subscriptionOf(t, paid.ID).Status)

	n, err = e.subscriptionSvc.BackfillTrials(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
