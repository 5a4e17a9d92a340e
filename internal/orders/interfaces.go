package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/db/models"
)

// Repository is the persistence surface for the order ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error)
}
