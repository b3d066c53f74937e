package handler

import (
	"net/http"
	"time"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/middleware"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type BillingHandler struct {
	billingService      service.BillingService
	subscriptionService service.SubscriptionService
}

func NewBillingHandler(billingService service.BillingService, subscriptionService service.SubscriptionService) *BillingHandler {
	return &BillingHandler{
		billingService:      billingService,
		subscriptionService: subscriptionService,
	}
}

func (h *BillingHandler) WhatsApp(c echo.Context) error {
	return c.JSON(http.StatusOK, h.billingService.WhatsAppOffer(c.QueryParam("plan")))
}

func (h *BillingHandler) Activate(c echo.Context) error {
	var req dto.ActivateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.billingService.Redeem(c.Request().Context(), middleware.UserID(c), req.Code, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BillingHandler) GenerateCodes(c echo.Context) error {
	var req dto.GenerateCodesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.billingService.GenerateCodes(c.Request().Context(), req.Plan, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BillingHandler) BackfillTrials(c echo.Context) error {
	created, err := h.subscriptionService.BackfillTrials(c.Request().Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "created": created})
}
