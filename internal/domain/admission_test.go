package domain

import (
	"testing"
	"time"

	"cardapiopro-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAcceptOrder(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	open := &model.Restaurant{ID: "r1", IsOpen: true}
	closed := &model.Restaurant{ID: "r1", IsOpen: false}

	cases := []struct {
		name       string
		restaurant *model.Restaurant
		sub        *model.Subscription
		want       RejectCode
	}{
		{"missing restaurant", nil, nil, RejectRestaurantNotFound},
		{"closed beats expired subscription", closed, &model.Subscription{Status: model.SubscriptionExpired}, RejectRestaurantClosed},
		{"no subscription", open, nil, RejectSubscriptionRequired},
		{"trial lapsed", open, &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &yesterday}, RejectTrialExpired},
		{"payment lapsed", open, &model.Subscription{Status: model.SubscriptionActive, PaidUntil: &yesterday}, RejectSubscriptionExpired},
		{"expired", open, &model.Subscription{Status: model.SubscriptionExpired}, RejectSubscriptionExpired},
		{"canceled", open, &model.Subscription{Status: model.SubscriptionCanceled, PaidUntil: &nextWeek}, RejectSubscriptionExpired},
		{"malformed trial", open, &model.Subscription{Status: model.SubscriptionTrial}, RejectSubscriptionExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanAcceptOrder(tc.restaurant, tc.sub, now)
			var admErr *AdmissionError
			require.ErrorAs(t, err, &admErr)
			assert.Equal(t, tc.want, admErr.Code)
			assert.NotEmpty(t, admErr.Message)
		})
	}
}

func TestCanAcceptOrder_Accepts(t *testing.T) {
	now := time.Now()
	nextWeek := now.AddDate(0, 0, 7)
	open := &model.Restaurant{ID: "r1", IsOpen: true}

	assert.NoError(t, CanAcceptOrder(open, &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &nextWeek}, now))
	assert.NoError(t, CanAcceptOrder(open, &model.Subscription{Status: model.SubscriptionActive, PaidUntil: &nextWeek}, now))
}

func TestCanAcceptOrder_ClosedMessage(t *testing.T) {
	err := CanAcceptOrder(&model.Restaurant{IsOpen: false}, nil, time.Now())
	assert.EqualError(t, err, "Restaurante está fechado")
}
