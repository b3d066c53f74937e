package handler

import (
	"net/http"

	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type StorefrontHandler struct {
	restaurantService service.RestaurantService
}

func NewStorefrontHandler(restaurantService service.RestaurantService) *StorefrontHandler {
	return &StorefrontHandler{
		restaurantService: restaurantService,
	}
}

func (h *StorefrontHandler) ListRestaurants(c echo.Context) error {
	restaurants, err := h.restaurantService.ListOpen(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurants)
}

func (h *StorefrontHandler) GetRestaurant(c echo.Context) error {
	restaurant, err := h.restaurantService.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurant)
}

func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	products, err := h.restaurantService.ListPublicProducts(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}
