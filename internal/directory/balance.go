package directory

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// BalanceAdjuster applies a signed delta to a crew member's running tab
// inside the order engine's transaction. There is no floor in either
// direction: a negative balance means the store owes the member, which is
// a legitimate state after an over-correction.
type BalanceAdjuster interface {
	Adjust(ctx context.Context, tx *gorm.DB, customerID string, delta int) error
}

type balanceAdjusterImpl struct{}

// NewBalanceAdjuster exposes the default balance adjustment implementation.
func NewBalanceAdjuster() BalanceAdjuster {
	return balanceAdjusterImpl{}
}

func (balanceAdjusterImpl) Adjust(ctx context.Context, tx *gorm.DB, customerID string, delta int) error {
	if delta == 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for balance adjustment")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE customers
		SET balance = balance + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, delta, customerID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust balance")
	}
	return nil
}
