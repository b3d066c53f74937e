package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardapiopro-backend/internal/config"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/service"
	"cardapiopro-backend/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, mw echo.MiddlewareFunc, header map[string]string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	return rec, c, called
}

func TestJWTAuth(t *testing.T) {
	token, err := utils.NewAccessToken("secret", "user-1", "a@b.com", "MERCHANT", time.Hour)
	require.NoError(t, err)

	rec, c, called := run(t, JWTAuth("secret"), map[string]string{"Authorization": "Bearer " + token})
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", UserID(c))
	assert.Equal(t, "MERCHANT", c.Get(ContextRole))

	rec, _, called = run(t, JWTAuth("other"), map[string]string{"Authorization": "Bearer " + token})
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _, called = run(t, JWTAuth("secret"), nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminSecret(t *testing.T) {
	_, _, called := run(t, RequireAdminSecret("k"), map[string]string{"X-Admin-Secret": "k"})
	assert.True(t, called)

	rec, _, called := run(t, RequireAdminSecret("k"), map[string]string{"X-Admin-Secret": "nope"})
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Não autorizado")

	// unset secret keeps the admin routes closed
	_, _, called = run(t, RequireAdminSecret(""), map[string]string{"X-Admin-Secret": ""})
	assert.False(t, called)
}

type stubGate struct {
	restaurant *model.Restaurant
	err        error
}

func (g stubGate) RequireActive(context.Context, string, time.Time) (*model.Restaurant, *model.Subscription, error) {
	return g.restaurant, nil, g.err
}

func TestRequireActiveSubscription(t *testing.T) {
	rec, c, called := run(t, RequireActiveSubscription(stubGate{restaurant: &model.Restaurant{ID: "r-1"}}), nil)
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "r-1", RestaurantID(c))

	rec, _, called = run(t, RequireActiveSubscription(stubGate{err: service.ErrNoRestaurant}), nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_RESTAURANT")

	end := time.Now().Add(-time.Hour)
	rec, _, called = run(t, RequireActiveSubscription(stubGate{err: &service.SubscriptionGateError{
		Code:         service.GateSubscriptionExpired,
		Message:      "Assinatura expirada. Ative para continuar.",
		Subscription: &model.Subscription{Status: model.SubscriptionActive, PaidUntil: &end},
	}}), nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SUBSCRIPTION_EXPIRED"`)
	assert.Contains(t, rec.Body.String(), `"status":"ACTIVE"`)
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimit{Enabled: true, Capacity: 1}, nil)
	for i := 0; i < 3; i++ {
		_, _, called := run(t, mw, nil)
		assert.True(t, called)
	}
}
