package handler

import (
	"net/http"
	"time"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// MerchantHandler manages the merchant's restaurant profile.
type MerchantHandler struct {
	restaurantService service.RestaurantService
}

func NewMerchantHandler(restaurantService service.RestaurantService) *MerchantHandler {
	return &MerchantHandler{
		restaurantService: restaurantService,
	}
}

func (h *MerchantHandler) CreateRestaurant(c echo.Context) error {
	var req dto.CreateRestaurantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	restaurant, err := h.restaurantService.Create(c.Request().Context(), middleware.UserID(c), &req, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, restaurant)
}

func (h *MerchantHandler) GetRestaurant(c echo.Context) error {
	restaurant, err := h.restaurantService.Get(c.Request().Context(), middleware.RestaurantID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *MerchantHandler) UpdateRestaurant(c echo.Context) error {
	var req dto.UpdateRestaurantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	restaurant, err := h.restaurantService.Update(c.Request().Context(), middleware.RestaurantID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurant)
}
