package domain

import (
	"time"

	"cardapiopro-backend/internal/model"
)

type Verdict string

const (
	VerdictValid          Verdict = "VALID"
	VerdictTrialExpired   Verdict = "TRIAL_EXPIRED"
	VerdictPaymentExpired Verdict = "PAYMENT_EXPIRED"
	VerdictBlocked        Verdict = "BLOCKED"
)

// Evaluate decides whether sub currently grants service. It never reads the
// clock; the boundary instant itself is still valid (now == end).
// A nil subscription is reported as BLOCKED, callers that need to tell
// "missing" apart must check for nil first.
func Evaluate(sub *model.Subscription, now time.Time) Verdict {
	if sub == nil {
		return VerdictBlocked
	}

	switch sub.Status {
	case model.SubscriptionCanceled, model.SubscriptionExpired:
		return VerdictBlocked
	case model.SubscriptionTrial:
		if sub.TrialEndsAt == nil {
			return VerdictBlocked
		}
		if now.After(*sub.TrialEndsAt) {
			return VerdictTrialExpired
		}
		return VerdictValid
	case model.SubscriptionActive:
		if sub.PaidUntil == nil {
			return VerdictBlocked
		}
		if now.After(*sub.PaidUntil) {
			return VerdictPaymentExpired
		}
		return VerdictValid
	default:
		return VerdictBlocked
	}
}

// NeedsExpiry reports whether a live check just observed a lapse that has not
// been persisted yet. Already EXPIRED or CANCELED records never need a write.
func NeedsExpiry(sub *model.Subscription, now time.Time) bool {
	switch Evaluate(sub, now) {
	case VerdictTrialExpired, VerdictPaymentExpired:
		return true
	default:
		return false
	}
}

// NewTrial builds the initial subscription handed to every new restaurant.
func NewTrial(id, restaurantID string, now time.Time, trialDays int) *model.Subscription {
	ends := now.AddDate(0, 0, trialDays)
	return &model.Subscription{
		ID:           id,
		RestaurantID: restaurantID,
		Status:       model.SubscriptionTrial,
		TrialEndsAt:  &ends,
	}
}
