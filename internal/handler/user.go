package handler

import (
	"net/http"
	"time"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// UserHandler serves the signed-in merchant's own account.
type UserHandler struct {
	restaurantService service.RestaurantService
}

func NewUserHandler(restaurantService service.RestaurantService) *UserHandler {
	return &UserHandler{
		restaurantService: restaurantService,
	}
}

func (h *UserHandler) Me(c echo.Context) error {
	me, err := h.restaurantService.Me(c.Request().Context(), middleware.UserID(c), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

func (h *UserHandler) SetPushToken(c echo.Context) error {
	var req dto.PushTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.restaurantService.SetPushToken(c.Request().Context(), middleware.UserID(c), req.Token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
