package cart

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// Clearer empties a cashier's staged cart inside the order engine's
// checkout transaction, so a failed checkout leaves the cart intact.
type Clearer interface {
	Clear(ctx context.Context, tx *gorm.DB, userID string) error
}

type clearerImpl struct {
	repo Repository
}

// NewClearer exposes the default cart clear implementation.
func NewClearer(repo Repository) Clearer {
	return clearerImpl{repo: repo}
}

func (c clearerImpl) Clear(ctx context.Context, tx *gorm.DB, userID string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for cart clear")
	}
	if err := c.repo.WithTx(tx).DeleteByUserID(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
