package dto

import "time"

// -------- auth --------

type RegisterRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	RestaurantName string `json:"restaurantName" validate:"omitempty,max=160"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type PushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// -------- restaurants --------

type CreateRestaurantRequest struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	IsOpen      *bool   `json:"isOpen"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=160"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	IsOpen      *bool   `json:"isOpen"`
}

type RestaurantView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IsOpen      bool    `json:"isOpen"`
}

type SubscriptionView struct {
	Status           string     `json:"status"`
	TrialEndsAt      *time.Time `json:"trialEndsAt"`
	PlanType         *string    `json:"planType"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
	Verdict          string     `json:"verdict"`
}

type MeRestaurant struct {
	RestaurantView
	Subscription *SubscriptionView `json:"subscription"`
}

type MeResponse struct {
	User       UserView      `json:"user"`
	Restaurant *MeRestaurant `json:"restaurant"`
}

// -------- products --------

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url,max=500"`
	PriceCents  int64   `json:"priceCents" validate:"required,gt=0,max=100000000"`
	Active      *bool   `json:"active"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=160"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url,max=500"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,gt=0,max=100000000"`
	Active      *bool   `json:"active"`
}

type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	PriceCents  int64   `json:"priceCents"`
}

// -------- orders --------

// Quantity and change are decoded as numbers so a fractional value can be
// reported as the matching validation error instead of a bind failure.
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

type PlaceOrderRequest struct {
	RestaurantID       string             `json:"restaurantId"`
	Items              []OrderItemRequest `json:"items"`
	CustomerName       *string            `json:"customerName" validate:"omitempty,max=160"`
	CustomerPhone      *string            `json:"customerPhone" validate:"omitempty,max=32"`
	DeliveryAddress    *string            `json:"deliveryAddress" validate:"omitempty,max=255"`
	CustomerAddress    *string            `json:"customerAddress" validate:"omitempty,max=255"`
	PaymentMethod      string             `json:"paymentMethod"`
	CashChangeForCents *float64           `json:"cashChangeForCents"`
}

type PlaceOrderResponse struct {
	OrderID            string    `json:"orderId"`
	Status             string    `json:"status"`
	TotalCents         int64     `json:"totalCents"`
	PaymentMethod      string    `json:"paymentMethod"`
	CashChangeForCents *int64    `json:"cashChangeForCents"`
	CreatedAt          time.Time `json:"createdAt"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemView struct {
	ID             string `json:"id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	NameSnapshot   string `json:"nameSnapshot"`
}

type OrderRestaurantView struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type PublicOrderView struct {
	ID                 string               `json:"id"`
	Status             string               `json:"status"`
	CustomerName       *string              `json:"customerName"`
	CustomerPhone      *string              `json:"customerPhone"`
	DeliveryAddress    *string              `json:"deliveryAddress"`
	CustomerAddress    *string              `json:"customerAddress"`
	TotalCents         int64                `json:"totalCents"`
	PaymentMethod      string               `json:"paymentMethod"`
	CashChangeForCents *int64               `json:"cashChangeForCents"`
	Paid               bool                 `json:"paid"`
	CreatedAt          time.Time            `json:"createdAt"`
	Restaurant         *OrderRestaurantView `json:"restaurant"`
	Items              []OrderItemView      `json:"items"`
}

// -------- billing --------

type ActivateRequest struct {
	Code string `json:"code"`
}

type ActivateResponse struct {
	OK        bool      `json:"ok"`
	Status    string    `json:"status"`
	PaidUntil time.Time `json:"paidUntil"`
}

type GenerateCodesRequest struct {
	Plan     string `json:"plan" validate:"required"`
	Quantity int    `json:"quantity"`
}

type GenerateCodesResponse struct {
	OK       bool     `json:"ok"`
	Plan     string   `json:"plan"`
	Quantity int      `json:"quantity"`
	Codes    []string `json:"codes"`
}

type PlanView struct {
	ID         string `json:"id"`
	PriceCents int64  `json:"priceCents"`
	Price      string `json:"price"`
	Days       int    `json:"days"`
}

type WhatsAppOffer struct {
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	WhatsAppURL string    `json:"whatsappUrl"`
	Plan        *PlanView `json:"plan"`
}
