package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

// Repository persists one staged cart per cashier account.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Save(ctx context.Context, record *models.CartRecord) error
	FindByUserID(ctx context.Context, userID string) (*models.CartRecord, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Save(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartRecord{}).Error
}
