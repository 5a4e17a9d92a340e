package models

import (
	"time"

	"github.com/harborline/slopchest-backend/pkg/enums"
)

// AuditEntry records one corrective action on an order. Rows are
// append-only: nothing in the codebase updates or deletes them.
// Modify entries always carry the pre-edit snapshot; delete entries do
// not, because the deleted order row itself stays inspectable.
type AuditEntry struct {
	ID           int64               `gorm:"column:id;primaryKey" json:"id"`
	Action       enums.AuditAction   `gorm:"column:action;not null;index" json:"action"`
	Cashier      string              `gorm:"column:cashier;not null" json:"cashier"`
	OrderID      string              `gorm:"column:order_id;not null" json:"order_id"`
	OrderNumber  int64               `gorm:"column:order_number;not null" json:"order_number"`
	Total        int                 `gorm:"column:total;not null" json:"total"`
	Method       enums.PaymentMethod `gorm:"column:method;not null" json:"method"`
	CustomerName string              `gorm:"column:customer_name;not null" json:"customer_name"`
	Detail       string              `gorm:"column:detail;not null;default:''" json:"detail"`
	Snapshot     *OrderSnapshot      `gorm:"column:snapshot;type:text;serializer:json" json:"snapshot,omitempty"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// HasSnapshot reports whether the entry supports a "view original" lookup.
func (e AuditEntry) HasSnapshot() bool {
	return e.Snapshot != nil
}
