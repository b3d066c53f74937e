package repository

import (
	"context"
	"time"

	"cardapiopro-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context, products []*model.Product) error
	Create(ctx context.Context, product *model.Product) error
	FindForRestaurant(ctx context.Context, restaurantID, productID string) (*model.Product, error)
	ListByRestaurant(ctx context.Context, restaurantID string, onlyActive bool) ([]*model.Product, error)
	FindActiveForOrder(ctx context.Context, restaurantID string, productIDs []string) ([]*model.Product, error)
	Update(ctx context.Context, restaurantID, productID string, fields map[string]interface{}) (*model.Product, error)
	IsReferenced(ctx context.Context, tx *gorm.DB, productID string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, restaurantID, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

// Seed inserts demo products, leaving rows that already exist untouched.
func (r *productRepoImpl) Seed(ctx context.Context, products []*model.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindForRestaurant(ctx context.Context, restaurantID, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", productID, restaurantID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) ListByRestaurant(ctx context.Context, restaurantID string, onlyActive bool) ([]*model.Product, error) {
	var products []*model.Product
	q := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	err := q.Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

// FindActiveForOrder loads only the requested products that belong to the
// restaurant and are active; anything else is simply absent from the result.
func (r *productRepoImpl) FindActiveForOrder(ctx context.Context, restaurantID string, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	if len(productIDs) == 0 {
		return products, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Where("restaurant_id = ?", restaurantID).
		Where("active = ?", true).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Update(ctx context.Context, restaurantID, productID string, fields map[string]interface{}) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields["updated_at"] = time.Now()
		result := tx.Model(&model.Product{}).
			Where("id = ? AND restaurant_id = ?", productID, restaurantID).
			Updates(fields)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", productID).First(&product).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) IsReferenced(ctx context.Context, tx *gorm.DB, productID string) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).Model(&model.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error

	return count > 0, err
}

func (r *productRepoImpl) Delete(ctx context.Context, tx *gorm.DB, restaurantID, productID string) error {
	result := conn(r.db, tx).WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", productID, restaurantID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
