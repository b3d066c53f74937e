package repository

import (
	"context"
	"time"

	"cardapiopro-backend/internal/model"

	"gorm.io/gorm"
)

type ActivationCodeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, code *model.ActivationCode) error
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.ActivationCode, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, codeID, userID string, usedAt time.Time) (bool, error)
}

type activationCodeRepoImpl struct {
	db *gorm.DB
}

func NewActivationCodeRepository(db *gorm.DB) ActivationCodeRepository {
	return &activationCodeRepoImpl{
		db: db,
	}
}

func (r *activationCodeRepoImpl) Create(ctx context.Context, tx *gorm.DB, code *model.ActivationCode) error {
	return conn(r.db, tx).WithContext(ctx).Create(code).Error
}

func (r *activationCodeRepoImpl) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.ActivationCode, error) {
	var found model.ActivationCode
	err := conn(r.db, tx).WithContext(ctx).
		Where("code = ?", code).
		First(&found).Error

	if err != nil {
		return nil, err
	}

	return &found, nil
}

// MarkUsed consumes the code only if nobody else has. The guard on used_at
// makes the second of two concurrent redemptions report false.
func (r *activationCodeRepoImpl) MarkUsed(ctx context.Context, tx *gorm.DB, codeID, userID string, usedAt time.Time) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.ActivationCode{}).
		Where("id = ? AND used_at IS NULL", codeID).
		Updates(map[string]interface{}{
			"used_at":    usedAt,
			"used_by_id": userID,
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
