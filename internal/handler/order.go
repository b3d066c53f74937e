package handler

import (
	"math"
	"net/http"
	"time"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/service"

	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// wholeNumber returns 0 for values that are not whole numbers in int64
// range; the pricing rules then reject them with the proper code.
func wholeNumber(v float64) int64 {
	if v != math.Trunc(v) || v >= 1<<63 || v < -(1<<63) {
		return 0
	}
	return int64(v)
}

// quantity keeps oversized values above MaxQuantity so they are reported as
// INVALID_QUANTITY instead of wrapping when narrowed to int.
func quantity(v float64) int {
	n := wholeNumber(v)
	if n > domain.MaxQuantity {
		return domain.MaxQuantity + 1
	}
	return int(n)
}

func toPlaceOrderInput(req *dto.PlaceOrderRequest) *service.PlaceOrderInput {
	items := make([]domain.LineRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.LineRequest{ProductID: it.ProductID, Quantity: quantity(it.Quantity)}
	}

	address := req.DeliveryAddress
	if address == nil {
		address = req.CustomerAddress
	}

	var change *int64
	if req.CashChangeForCents != nil {
		v := wholeNumber(*req.CashChangeForCents)
		change = &v
	}

	return &service.PlaceOrderInput{
		RestaurantID:       req.RestaurantID,
		Items:              items,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		DeliveryAddress:    address,
		PaymentMethod:      req.PaymentMethod,
		CashChangeForCents: change,
	}
}

func (h *OrderHandler) place(c echo.Context) (*model.Order, error) {
	var req dto.PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return h.orderService.PlaceOrder(c.Request().Context(), toPlaceOrderInput(&req), time.Now())
}

// PlaceOrder is the storefront checkout.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	order, err := h.place(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.PlaceOrderResponse{
		OrderID:            order.ID,
		Status:             string(order.Status),
		TotalCents:         order.TotalCents,
		PaymentMethod:      string(order.PaymentMethod),
		CashChangeForCents: order.CashChangeForCents,
		CreatedAt:          order.CreatedAt,
	})
}

// PlaceOrderLegacy is kept for older clients that expect the whole order back.
func (h *OrderHandler) PlaceOrderLegacy(c echo.Context) error {
	order, err := h.place(c)
	if err != nil {
		return err
	}

	view, err := orderView(order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *OrderHandler) GetPublic(c echo.Context) error {
	order, err := h.orderService.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	view, err := orderView(order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.ListForMerchant(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	views := make([]*dto.PublicOrderView, 0, len(orders))
	for _, o := range orders {
		view, err := orderView(o)
		if err != nil {
			return err
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req dto.UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	view, err := orderView(order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func orderView(order *model.Order) (*dto.PublicOrderView, error) {
	view := &dto.PublicOrderView{
		ID:                 order.ID,
		Status:             string(order.Status),
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		DeliveryAddress:    order.DeliveryAddress,
		CustomerAddress:    order.DeliveryAddress,
		TotalCents:         order.TotalCents,
		PaymentMethod:      string(order.PaymentMethod),
		CashChangeForCents: order.CashChangeForCents,
		Paid:               order.Paid,
		CreatedAt:          order.CreatedAt,
	}

	if order.Restaurant != nil {
		view.Restaurant = &dto.OrderRestaurantView{}
		if err := copier.Copy(view.Restaurant, order.Restaurant); err != nil {
			return nil, err
		}
	}

	view.Items = make([]dto.OrderItemView, 0, len(order.Items))
	for _, it := range order.Items {
		view.Items = append(view.Items, dto.OrderItemView{
			ID:             it.ID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			NameSnapshot:   it.NameSnapshot,
		})
	}
	return view, nil
}
