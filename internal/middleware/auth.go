package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"cardapiopro-backend/internal/utils"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID       = "user_id"
	ContextRole         = "role"
	ContextRestaurantID = "restaurant_id"
)

// JWTAuth validates the Bearer access token and stores the caller's id and
// role on the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token ausente"})
			}

			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token inválido"})
			}

			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// RequireAdminSecret guards the code generation endpoints. An empty secret
// disables them entirely.
func RequireAdminSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			given := c.Request().Header.Get("X-Admin-Secret")
			if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Não autorizado"})
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func RestaurantID(c echo.Context) string {
	id, _ := c.Get(ContextRestaurantID).(string)
	return id
}
