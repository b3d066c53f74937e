package repository

import (
	"context"
	"time"

	"cardapiopro-backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindForRestaurant(ctx context.Context, tx *gorm.DB, restaurantID, orderID string) (*model.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, from, to model.OrderStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Restaurant").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

// FindByID loads the order with its lines and restaurant, regardless of
// the restaurant's subscription.
func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Restaurant").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindForRestaurant scopes the lookup to one tenant; an order owned by
// another restaurant is reported as not found.
func (r *orderRepoImpl) FindForRestaurant(ctx context.Context, tx *gorm.DB, restaurantID, orderID string) (*model.Order, error) {
	var order model.Order
	err := conn(r.db, tx).WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus applies from → to only if the order is still in from.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, from, to model.OrderStatus) error {
	result := conn(r.db, tx).WithContext(ctx).Model(&model.Order{}).
		Where(`
			id = ?
			AND status = ?
		`,
			orderID,
			from,
		).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleWrite
	}

	return nil
}
