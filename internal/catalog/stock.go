package catalog

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
)

// StockDebiter removes sold quantity from a product inside the order
// engine's transaction. There is deliberately no floor check: an oversell
// drives stock negative and is reconciled manually during stocktake.
type StockDebiter interface {
	Debit(ctx context.Context, tx *gorm.DB, productID string, qty int) error
}

type stockDebiterImpl struct{}

// NewStockDebiter exposes the default stock debit implementation.
func NewStockDebiter() StockDebiter {
	return stockDebiterImpl{}
}

func (stockDebiterImpl) Debit(ctx context.Context, tx *gorm.DB, productID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock debit")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "debit stock")
	}
	return nil
}
