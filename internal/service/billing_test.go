package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"cardapiopro-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) code(t *testing.T, code, plan string, days int) *model.ActivationCode {
	t.Helper()
	c := &model.ActivationCode{ID: uuid.NewString(), Code: code, Plan: plan, Days: days}
	require.NoError(t, e.codes.Create(context.Background(), nil, c))
	return c
}

func TestRedeem_TrialBecomesActive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	user, r := e.merchant(t, trialUntil(now.AddDate(0, 0, 3)))
	e.code(t, "CP-AAAA-BBBB-CCCC", "monthly", 30)

	resp, err := e.billingSvc.Redeem(ctx, user.ID, " cp-aaaa-bbbb-cccc ", now)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.WithinDuration(t, now.AddDate(0, 0, 30), resp.PaidUntil, time.Second)

	sub := e.subscriptionOf(t, r.ID)
	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.Nil(t, sub.TrialEndsAt)
	require.NotNil(t, sub.PlanType)
	assert.Equal(t, "MONTHLY", *sub.PlanType)

	stored, err := e.codes.FindByCode(ctx, nil, "CP-AAAA-BBBB-CCCC")
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt)
	require.NotNil(t, stored.UsedByID)
	assert.Equal(t, user.ID, *stored.UsedByID)
}

func TestRedeem_ExtendsFromFuturePaidUntil(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	user, r := e.merchant(t, activeUntil(now.AddDate(0, 0, 10)))
	e.code(t, "CP-2222-3333-4444", "monthly", 30)

	_, err := e.billingSvc.Redeem(context.Background(), user.ID, "CP-2222-3333-4444", now)
	require.NoError(t, err)

	sub := e.subscriptionOf(t, r.ID)
	require.NotNil(t, sub.PaidUntil)
	assert.WithinDuration(t, now.AddDate(0, 0, 40), *sub.PaidUntil, time.Second)
}

func TestRedeem_ExpiredStartsFromNow(t *testing.T) {
	e := newTestEnv(t)
	now := time.Now()

	user, r := e.merchant(t, activeUntil(now.AddDate(0, 0, -20)))
	e.code(t, "CP-YYYY-ZZZZ-2345", "yearly", 365)

	_, err := e.billingSvc.Redeem(context.Background(), user.ID, "CP-YYYY-ZZZZ-2345", now)
	require.NoError(t, err)

	sub := e.subscriptionOf(t, r.ID)
	assert.WithinDuration(t, now.AddDate(0, 0, 365), *sub.PaidUntil, time.Second)
	assert.Equal(t, "YEARLY", *sub.PlanType)
}

func TestRedeem_ConcurrentUseSucceedsOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	first, r1 := e.merchant(t, trialUntil(now.AddDate(0, 0, 3)))
	second, r2 := e.merchant(t, trialUntil(now.AddDate(0, 0, 3)))
	e.code(t, "CP-RRRR-SSSS-TTTT", "monthly", 30)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		userID := first.ID
		if i%2 == 1 {
			userID = second.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.billingSvc.Redeem(ctx, userID, "CP-RRRR-SSSS-TTTT", now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrCodeAlreadyUsed)
	}
	assert.Equal(t, 1, succeeded)

	// exactly one restaurant was extended, and only by one period
	subs := []*model.Subscription{e.subscriptionOf(t, r1.ID), e.subscriptionOf(t, r2.ID)}
	active := 0
	for _, sub := range subs {
		if sub.Status != model.SubscriptionActive {
			assert.Equal(t, model.SubscriptionTrial, sub.Status)
			continue
		}
		active++
		require.NotNil(t, sub.PaidUntil)
		assert.WithinDuration(t, now.AddDate(0, 0, 30), *sub.PaidUntil, time.Second)
	}
	assert.Equal(t, 1, active)
}

func TestRedeem_SecondUseRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	first, r := e.merchant(t, trialUntil(now.AddDate(0, 0, 3)))
	second, other := e.merchant(t, trialUntil(now.AddDate(0, 0, 3)))
	e.code(t, "CP-MMMM-NNNN-PPPP", "monthly", 30)

	_, err := e.billingSvc.Redeem(ctx, first.ID, "CP-MMMM-NNNN-PPPP", now)
	require.NoError(t, err)
	paidUntil := *e.subscriptionOf(t, r.ID).PaidUntil

	_, err = e.billingSvc.Redeem(ctx, second.ID, "CP-MMMM-NNNN-PPPP", now)
	assert.ErrorIs(t, err, ErrCodeAlreadyUsed)
	assert.Equal(t, model.SubscriptionTrial, e.subscriptionOf(t, other.ID).Status)

	_, err = e.billingSvc.Redeem(ctx, first.ID, "CP-MMMM-NNNN-PPPP", now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrCodeAlreadyUsed)
	assert.True(t, paidUntil.Equal(*e.subscriptionOf(t, r.ID).PaidUntil))
}

func TestRedeem_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	user, _ := e.merchant(t, nil)
	e.code(t, "CP-QQQQ-RRRR-SSSS", "monthly", 30)

	_, err := e.billingSvc.Redeem(ctx, user.ID, "   ", now)
	assert.ErrorIs(t, err, ErrCodeRequired)

	_, err = e.billingSvc.Redeem(ctx, user.ID, "CP-NOPE-NOPE-NOPE", now)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = e.billingSvc.Redeem(ctx, "no-restaurant", "CP-QQQQ-RRRR-SSSS", now)
	assert.ErrorIs(t, err, ErrNoRestaurant)

	// a restaurant without any subscription row gets one on activation
	_, err = e.billingSvc.Redeem(ctx, user.ID, "CP-QQQQ-RRRR-SSSS", now)
	require.NoError(t, err)
}

func TestGenerateCodes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	resp, err := e.billingSvc.GenerateCodes(ctx, "YEARLY", 3)
	require.NoError(t, err)
	assert.Equal(t, "yearly", resp.Plan)
	require.Len(t, resp.Codes, 3)
	for _, c := range resp.Codes {
		assert.Regexp(t, `^CP-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`, c)
		stored, err := e.codes.FindByCode(ctx, nil, c)
		require.NoError(t, err)
		assert.Equal(t, 365, stored.Days)
		assert.Nil(t, stored.UsedAt)
	}

	resp, err = e.billingSvc.GenerateCodes(ctx, "monthly", 500)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Quantity)

	_, err = e.billingSvc.GenerateCodes(ctx, "weekly", 1)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func scriptedCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}

func TestGenerateCodes_RetriesCollision(t *testing.T) {
	e := newTestEnv(t)
	e.code(t, "CP-AAAA-AAAA-AAAA", "monthly", 30)
	e.billingSvc.(*billingServiceImpl).newCode = scriptedCodes("CP-AAAA-AAAA-AAAA", "CP-BBBB-BBBB-BBBB", "CP-BBBB-BBBB-BBBB", "CP-CCCC-CCCC-CCCC")

	resp, err := e.billingSvc.GenerateCodes(context.Background(), "monthly", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"CP-BBBB-BBBB-BBBB", "CP-CCCC-CCCC-CCCC"}, resp.Codes)
}

func TestGenerateCodes_CollisionRollsBackBatch(t *testing.T) {
	e := newTestEnv(t)
	e.billingSvc.(*billingServiceImpl).newCode = scriptedCodes("CP-DDDD-DDDD-DDDD")

	_, err := e.billingSvc.GenerateCodes(context.Background(), "monthly", 2)
	assert.ErrorIs(t, err, ErrCodeCollision)

	var n int64
	require.NoError(t, e.db.Model(&model.ActivationCode{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWhatsAppOffer(t *testing.T) {
	e := newTestEnv(t)

	offer := e.billingSvc.WhatsAppOffer("monthly")
	require.NotNil(t, offer.Plan)
	assert.Equal(t, "R$ 29,90", offer.Plan.Price)
	assert.Contains(t, offer.Message, "Mensal")
	assert.True(t, strings.HasPrefix(offer.WhatsAppURL, "https://wa.me/5595991143280?text="))
	assert.NotContains(t, offer.WhatsAppURL, " ")

	generic := e.billingSvc.WhatsAppOffer("")
	assert.Nil(t, generic.Plan)
	assert.Equal(t, "Olá! Quero assinar o CardapioPro.", generic.Message)
}
