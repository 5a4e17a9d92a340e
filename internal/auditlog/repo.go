package auditlog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
)

// Repository is the persistence surface for audit entries. It exposes no
// update or delete: the log is append-only by construction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.AuditEntry) error
	FindByID(ctx context.Context, id int64) (*models.AuditEntry, error)
	ListByActionInWindow(ctx context.Context, action enums.AuditAction, from, to time.Time) ([]models.AuditEntry, error)
	MaxID(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an audit log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.AuditEntry, error) {
	var entry models.AuditEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByActionInWindow(ctx context.Context, action enums.AuditAction, from, to time.Time) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) MaxID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditEntry{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
