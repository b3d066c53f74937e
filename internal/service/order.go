package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardapiopro-backend/internal/client"
	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OrderCreatedRoutingKey = "order.created"

type PlaceOrderInput struct {
	RestaurantID       string
	Items              []domain.LineRequest
	CustomerName       *string
	CustomerPhone      *string
	DeliveryAddress    *string
	PaymentMethod      string
	CashChangeForCents *int64
}

type OrderCreatedEvent struct {
	OrderID       string    `json:"orderId"`
	RestaurantID  string    `json:"restaurantId"`
	TotalCents    int64     `json:"totalCents"`
	PaymentMethod string    `json:"paymentMethod"`
	ItemCount     int       `json:"itemCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in *PlaceOrderInput, now time.Time) (*model.Order, error)
	GetPublic(ctx context.Context, orderID string) (*model.Order, error)
	ListForMerchant(ctx context.Context, userID string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID, status string) (*model.Order, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	restaurantRepo repository.RestaurantRepository
	subRepo        repository.SubscriptionRepository
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	events         client.EventPublisher
	log            Logger
}

func NewOrderService(
	db *gorm.DB,
	restaurantRepo repository.RestaurantRepository,
	subRepo repository.SubscriptionRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	events client.EventPublisher,
	log Logger,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		restaurantRepo: restaurantRepo,
		subRepo:        subRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		events:         events,
		log:            log,
	}
}

// PlaceOrder runs the intake gate, prices the cart from the catalog and
// writes the order with all its lines in one transaction. The gate is
// read-only here; expiry is persisted by the merchant gate.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, in *PlaceOrderInput, now time.Time) (*model.Order, error) {
	restaurantID := strings.TrimSpace(in.RestaurantID)
	if restaurantID == "" {
		return nil, ErrRestaurantIDRequired
	}
	if err := domain.RequireItems(in.Items); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, nil, restaurantID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	var sub *model.Subscription
	if restaurant != nil {
		sub, err = s.subRepo.FindByRestaurant(ctx, nil, restaurant.ID)
		if err != nil {
			return nil, fmt.Errorf("find subscription: %w", err)
		}
	}

	if err := domain.CanAcceptOrder(restaurant, sub, now); err != nil {
		return nil, err
	}

	catalog, err := s.productRepo.FindActiveForOrder(ctx, restaurantID, domain.ProductIDs(in.Items))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	draft, err := domain.BuildOrder(restaurantID, in.Items, catalog, in.PaymentMethod, in.CashChangeForCents)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:                 uuid.NewString(),
		RestaurantID:       draft.RestaurantID,
		CustomerName:       in.CustomerName,
		CustomerPhone:      in.CustomerPhone,
		DeliveryAddress:    in.DeliveryAddress,
		TotalCents:         draft.TotalCents,
		Status:             model.OrderStatusNew,
		PaymentMethod:      draft.PaymentMethod,
		CashChangeForCents: draft.CashChangeForCents,
		Paid:               false,
	}

	items := make([]*model.OrderItem, len(draft.Lines))
	for i, line := range draft.Lines {
		items[i] = &model.OrderItem{
			ID:             uuid.NewString(),
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			NameSnapshot:   line.NameSnapshot,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = make([]model.OrderItem, len(items))
	for i, it := range items {
		order.Items[i] = *it
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *orderServiceImpl) publishCreated(ctx context.Context, order *model.Order) {
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		RestaurantID:  order.RestaurantID,
		TotalCents:    order.TotalCents,
		PaymentMethod: string(order.PaymentMethod),
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt,
	}
	if err := s.events.Publish(ctx, OrderCreatedRoutingKey, event); err != nil {
		s.log.Warnf("publish %s for order %s: %v", OrderCreatedRoutingKey, order.ID, err)
	}
}

// GetPublic is the customer tracking lookup. It never looks at the
// subscription, so accepted orders stay visible after a lapse.
func (s *orderServiceImpl) GetPublic(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderServiceImpl) merchantRestaurant(ctx context.Context, userID string) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByOwner(ctx, nil, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoRestaurant
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *orderServiceImpl) ListForMerchant(ctx context.Context, userID string) ([]*model.Order, error) {
	restaurant, err := s.merchantRestaurant(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByRestaurant(ctx, restaurant.ID)
}

// UpdateStatus resolves the caller's restaurant first, then the order within
// it, and only then checks the transition. A caller without a restaurant owns
// no orders, so that case is reported as a missing order.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, userID, orderID, status string) (*model.Order, error) {
	restaurant, err := s.merchantRestaurant(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoRestaurant) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if to == "" {
		return nil, ErrStatusRequired
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindForRestaurant(ctx, tx, restaurant.ID, orderID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("find order: %w", err)
		}

		if err := domain.ValidateTransition(order.Status, to); err != nil {
			return err
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Status, to); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return ErrOrderChanged
			}
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPublic(ctx, orderID)
}
