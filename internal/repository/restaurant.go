package repository

import (
	"context"
	"time"

	"cardapiopro-backend/internal/model"

	"gorm.io/gorm"
)

type RestaurantRepository interface {
	Create(ctx context.Context, tx *gorm.DB, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, tx *gorm.DB, restaurantID string) (*model.Restaurant, error)
	FindByOwner(ctx context.Context, tx *gorm.DB, ownerID string) (*model.Restaurant, error)
	ListOpen(ctx context.Context) ([]*model.Restaurant, error)
	Update(ctx context.Context, restaurantID string, fields map[string]interface{}) (*model.Restaurant, error)
	ListWithoutSubscription(ctx context.Context, tx *gorm.DB) ([]*model.Restaurant, error)
}

type restaurantRepoImpl struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepoImpl{
		db: db,
	}
}

func (r *restaurantRepoImpl) Create(ctx context.Context, tx *gorm.DB, restaurant *model.Restaurant) error {
	return conn(r.db, tx).WithContext(ctx).Create(restaurant).Error
}

func (r *restaurantRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, restaurantID string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := conn(r.db, tx).WithContext(ctx).
		Where("id = ?", restaurantID).
		First(&restaurant).Error

	if err != nil {
		return nil, err
	}

	return &restaurant, nil
}

func (r *restaurantRepoImpl) FindByOwner(ctx context.Context, tx *gorm.DB, ownerID string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := conn(r.db, tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&restaurant).Error

	if err != nil {
		return nil, err
	}

	return &restaurant, nil
}

func (r *restaurantRepoImpl) ListOpen(ctx context.Context) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant
	err := r.db.WithContext(ctx).
		Where("is_open = ?", true).
		Order("name ASC").
		Find(&restaurants).Error

	if err != nil {
		return nil, err
	}

	return restaurants, nil
}

func (r *restaurantRepoImpl) Update(ctx context.Context, restaurantID string, fields map[string]interface{}) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields["updated_at"] = time.Now()
		result := tx.Model(&model.Restaurant{}).
			Where("id = ?", restaurantID).
			Updates(fields)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", restaurantID).First(&restaurant).Error
	})
	if err != nil {
		return nil, err
	}

	return &restaurant, nil
}

func (r *restaurantRepoImpl) ListWithoutSubscription(ctx context.Context, tx *gorm.DB) ([]*model.Restaurant, error) {
	var restaurants []*model.Restaurant
	err := conn(r.db, tx).WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&model.Subscription{}).Select("restaurant_id")).
		Find(&restaurants).Error

	if err != nil {
		return nil, err
	}

	return restaurants, nil
}
