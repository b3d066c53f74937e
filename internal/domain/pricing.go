package domain

import (
	"math"
	"math/bits"
	"strings"

	"cardapiopro-backend/internal/model"
)

// Catalog and cart bounds. A cart within them can still be refused when its
// total does not fit in int64 cents.
const (
	MaxPriceCents = 100_000_000
	MaxQuantity   = 1000
)

type ValidationCode string

const (
	InvalidEmptyItems    ValidationCode = "EMPTY_ITEMS"
	InvalidQuantity      ValidationCode = "INVALID_QUANTITY"
	InvalidProduct       ValidationCode = "INVALID_PRODUCT"
	InvalidPaymentMethod ValidationCode = "INVALID_PAYMENT_METHOD"
	InvalidChange        ValidationCode = "INVALID_CHANGE"
)

type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(code ValidationCode, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

type LineRequest struct {
	ProductID string
	Quantity  int
}

type OrderLine struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	NameSnapshot   string
}

type OrderDraft struct {
	RestaurantID       string
	Lines              []OrderLine
	TotalCents         int64
	PaymentMethod      model.PaymentMethod
	CashChangeForCents *int64
}

// ProductIDs returns the distinct product ids referenced by items, in order.
func ProductIDs(items []LineRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// RequireItems rejects an empty cart. Intake runs it before admission.
func RequireItems(items []LineRequest) error {
	if len(items) == 0 {
		return invalid(InvalidEmptyItems, "Pedido sem itens")
	}
	return nil
}

// ParsePaymentMethod defaults a blank method to PIX.
func ParsePaymentMethod(raw string) (model.PaymentMethod, bool) {
	m := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	if m == "" {
		return model.PaymentPix, true
	}
	switch m {
	case model.PaymentPix, model.PaymentCardCredit, model.PaymentCardDebit, model.PaymentCash:
		return m, true
	}
	return "", false
}

// BuildOrder prices a cart against catalog. Catalog entries that belong to
// another restaurant or are inactive are dropped before matching, so they
// surface as INVALID_PRODUCT exactly like unknown ids. Client prices are
// never an input.
func BuildOrder(restaurantID string, items []LineRequest, catalog []*model.Product, paymentMethod string, cashChangeForCents *int64) (*OrderDraft, error) {
	if err := RequireItems(items); err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Product, len(catalog))
	for _, p := range catalog {
		if p == nil || p.RestaurantID != restaurantID || !p.Active {
			continue
		}
		byID[p.ID] = p
	}

	var total int64
	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || it.Quantity > MaxQuantity {
			return nil, invalid(InvalidQuantity, "Quantidade inválida")
		}
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, invalid(InvalidProduct, "Produto inválido (não pertence ao restaurante ou inativo)")
		}

		next, ok := addLine(total, p.PriceCents, it.Quantity)
		if !ok {
			return nil, invalid(InvalidQuantity, "Quantidade inválida: total do pedido excede o limite")
		}
		total = next
		lines = append(lines, OrderLine{
			ProductID:      p.ID,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
			NameSnapshot:   p.Name,
		})
	}

	method, ok := ParsePaymentMethod(paymentMethod)
	if !ok {
		return nil, invalid(InvalidPaymentMethod, "paymentMethod inválido. Use PIX, CARD_CREDIT, CARD_DEBIT ou CASH.")
	}

	var change *int64
	if method == model.PaymentCash && cashChangeForCents != nil {
		if *cashChangeForCents <= 0 {
			return nil, invalid(InvalidChange, "cashChangeForCents inválido")
		}
		if *cashChangeForCents < total {
			return nil, invalid(InvalidChange, "Troco inválido: deve ser maior ou igual ao total do pedido.")
		}
		v := *cashChangeForCents
		change = &v
	}

	return &OrderDraft{
		RestaurantID:       restaurantID,
		Lines:              lines,
		TotalCents:         total,
		PaymentMethod:      method,
		CashChangeForCents: change,
	}, nil
}

// addLine returns total + price*qty, or false when any term is negative or
// the result leaves the int64 range.
func addLine(total, price int64, qty int) (int64, bool) {
	if total < 0 || price < 0 || qty < 0 {
		return 0, false
	}
	hi, line := bits.Mul64(uint64(price), uint64(qty))
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(uint64(total), line, 0)
	if carry != 0 || sum > math.MaxInt64 {
		return 0, false
	}
	return int64(sum), true
}
