package repository

import (
	"context"
	"time"

	"cardapiopro-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	// FindByRestaurant returns (nil, nil) when the restaurant has none.
	FindByRestaurant(ctx context.Context, tx *gorm.DB, restaurantID string) (*model.Subscription, error)
	Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error
	CreateIfMissing(ctx context.Context, tx *gorm.DB, sub *model.Subscription) (bool, error)
	MarkExpired(ctx context.Context, tx *gorm.DB, subscriptionID string) (bool, error)
	Activate(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) FindByRestaurant(ctx context.Context, tx *gorm.DB, restaurantID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := conn(r.db, tx).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Limit(1).
		Find(&sub).
		Error

	if err != nil {
		return nil, err
	}
	if sub.ID == "" {
		return nil, nil
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error {
	return conn(r.db, tx).WithContext(ctx).Create(sub).Error
}

// CreateIfMissing inserts sub unless the restaurant already has one. It is
// safe to race: the unique restaurant_id index decides the winner.
func (r *subscriptionRepoImpl) CreateIfMissing(ctx context.Context, tx *gorm.DB, sub *model.Subscription) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}},
			DoNothing: true,
		}).
		Create(sub)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkExpired only moves TRIAL or ACTIVE rows, so repeating it on an
// already expired subscription is a no-op and reports false.
func (r *subscriptionRepoImpl) MarkExpired(ctx context.Context, tx *gorm.DB, subscriptionID string) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Subscription{}).
		Where(`
			id = ?
			AND status IN ?
		`,
			subscriptionID,
			[]model.SubscriptionStatus{model.SubscriptionTrial, model.SubscriptionActive},
		).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionExpired,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Activate upserts the restaurant's subscription to ACTIVE with the given
// paidUntil and plan, clearing any trial window.
func (r *subscriptionRepoImpl) Activate(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error {
	sub.Status = model.SubscriptionActive
	sub.TrialEndsAt = nil

	return conn(r.db, tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "restaurant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":        model.SubscriptionActive,
			"paid_until":    sub.PaidUntil,
			"trial_ends_at": nil,
			"plan_type":     sub.PlanType,
			"updated_at":    time.Now(),
		}),
	}).Create(sub).Error
}
