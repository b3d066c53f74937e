package handler

import (
	"net/http"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// ProductHandler is the merchant catalog. Every route runs behind the
// subscription gate, which resolves the restaurant.
type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context(), middleware.RestaurantID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req dto.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), middleware.RestaurantID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), middleware.RestaurantID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req dto.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), middleware.RestaurantID(c), c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.productService.Delete(c.Request().Context(), middleware.RestaurantID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
