package domain

import (
	"fmt"

	"cardapiopro-backend/internal/model"
)

var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusNew:            {model.OrderStatusPreparing, model.OrderStatusCanceled},
	model.OrderStatusPreparing:      {model.OrderStatusOutForDelivery},
	model.OrderStatusOutForDelivery: {model.OrderStatusDelivered},
	model.OrderStatusDelivered:      {},
	model.OrderStatusCanceled:       {},
}

type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Transição inválida: %s → %s", e.From, e.To)
}

func CanTransition(from, to model.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition also rejects unknown target statuses, reporting them
// verbatim so clients can see what they sent.
func ValidateTransition(from, to model.OrderStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

func IsTerminal(s model.OrderStatus) bool {
	next, known := transitions[s]
	return known && len(next) == 0
}
