package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type SubscriptionGate interface {
	RequireActive(ctx context.Context, userID string, now time.Time) (*model.Restaurant, *model.Subscription, error)
}

type gateSnapshot struct {
	Status      model.SubscriptionStatus `json:"status"`
	TrialEndsAt *time.Time               `json:"trialEndsAt"`
	PaidUntil   *time.Time               `json:"paidUntil"`
}

// RequireActiveSubscription locks a merchant out of catalog and restaurant
// management once the subscription lapses. Must run after JWTAuth.
func RequireActiveSubscription(gate SubscriptionGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			restaurant, _, err := gate.RequireActive(c.Request().Context(), UserID(c), time.Now())
			if err != nil {
				var gateErr *service.SubscriptionGateError
				switch {
				case errors.Is(err, service.ErrNoRestaurant):
					return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "code": "NO_RESTAURANT"})
				case errors.As(err, &gateErr):
					body := echo.Map{"error": gateErr.Message, "code": gateErr.Code}
					if sub := gateErr.Subscription; sub != nil {
						body["subscription"] = gateSnapshot{Status: sub.Status, TrialEndsAt: sub.TrialEndsAt, PaidUntil: sub.PaidUntil}
					}
					return c.JSON(http.StatusPaymentRequired, body)
				default:
					return err
				}
			}

			c.Set(ContextRestaurantID, restaurant.ID)
			return next(c)
		}
	}
}
