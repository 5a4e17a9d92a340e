package models

import (
	"fmt"
	"time"

	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/types"
)

// Order is one checkout. Items and customer name are frozen copies taken
// at creation (or at the latest in-place edit), never live references, so
// later catalog or directory edits cannot rewrite history.
type Order struct {
	ID           string              `gorm:"column:id;primaryKey" json:"id"`
	Number       int64               `gorm:"column:number;not null" json:"number"`
	Cashier      string              `gorm:"column:cashier;not null" json:"cashier"`
	CustomerID   string              `gorm:"column:customer_id;not null;index" json:"customer_id"`
	CustomerName string              `gorm:"column:customer_name;not null" json:"customer_name"`
	Method       enums.PaymentMethod `gorm:"column:method;not null" json:"method"`
	Status       enums.OrderStatus   `gorm:"column:status;not null;default:'completed'" json:"status"`
	Items        types.OrderItems    `gorm:"column:items;type:text;serializer:json" json:"items"`
	Total        int                 `gorm:"column:total;not null" json:"total"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// DisplayID is the zero-padded receipt number shown on tickets, e.g. "#0001".
func (o Order) DisplayID() string {
	return fmt.Sprintf("#%04d", o.Number)
}

// Snapshot deep-copies the order's mutable state for an audit entry.
func (o Order) Snapshot() *OrderSnapshot {
	return &OrderSnapshot{
		OrderID:      o.ID,
		Number:       o.Number,
		Cashier:      o.Cashier,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Method:       o.Method,
		Status:       o.Status,
		Items:        o.Items.Clone(),
		Total:        o.Total,
		CreatedAt:    o.CreatedAt,
	}
}

// OrderSnapshot is the frozen pre-action copy stored inside an audit entry.
type OrderSnapshot struct {
	OrderID      string              `json:"order_id"`
	Number       int64               `json:"number"`
	Cashier      string              `json:"cashier"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Method       enums.PaymentMethod `json:"method"`
	Status       enums.OrderStatus   `json:"status"`
	Items        types.OrderItems    `json:"items"`
	Total        int                 `json:"total"`
	CreatedAt    time.Time           `json:"created_at"`
}
