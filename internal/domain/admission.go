package domain

import (
	"time"

	"cardapiopro-backend/internal/model"
)

type RejectCode string

const (
	RejectRestaurantNotFound   RejectCode = "RESTAURANT_NOT_FOUND"
	RejectRestaurantClosed     RejectCode = "RESTAURANT_CLOSED"
	RejectSubscriptionRequired RejectCode = "SUBSCRIPTION_REQUIRED"
	RejectTrialExpired         RejectCode = "TRIAL_EXPIRED"
	RejectSubscriptionExpired  RejectCode = "SUBSCRIPTION_EXPIRED"
)

var rejectMessages = map[RejectCode]string{
	RejectRestaurantNotFound:   "Restaurante não encontrado",
	RejectRestaurantClosed:     "Restaurante está fechado",
	RejectSubscriptionRequired: "Assinatura necessária para receber pedidos.",
	RejectTrialExpired:         "Restaurante indisponível: teste expirou.",
	RejectSubscriptionExpired:  "Restaurante sem assinatura ativa no momento.",
}

type AdmissionError struct {
	Code    RejectCode
	Message string
}

func (e *AdmissionError) Error() string {
	return e.Message
}

func reject(code RejectCode) *AdmissionError {
	return &AdmissionError{Code: code, Message: rejectMessages[code]}
}

// CanAcceptOrder is the order intake gate. It returns nil when a new order may
// be created, or an *AdmissionError naming the first failed check.
// It has no side effects; persisting an observed expiry is left to the
// merchant-facing gate.
func CanAcceptOrder(restaurant *model.Restaurant, sub *model.Subscription, now time.Time) error {
	if restaurant == nil {
		return reject(RejectRestaurantNotFound)
	}
	if !restaurant.IsOpen {
		return reject(RejectRestaurantClosed)
	}
	if sub == nil {
		return reject(RejectSubscriptionRequired)
	}

	switch Evaluate(sub, now) {
	case VerdictValid:
		return nil
	case VerdictTrialExpired:
		return reject(RejectTrialExpired)
	default:
		return reject(RejectSubscriptionExpired)
	}
}
