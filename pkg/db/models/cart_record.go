package models

import (
	"time"

	"github.com/harborline/slopchest-backend/pkg/types"
)

// CartRecord is the staging area for one cashier session: the selected
// crew member plus the lines picked so far. One record per cashier; lines
// are keyed by product id with the price snapshotted at add time. The
// record survives a terminal restart and is cleared by checkout.
type CartRecord struct {
	ID           string           `gorm:"column:id;primaryKey" json:"id"`
	UserID       string           `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	CustomerID   string           `gorm:"column:customer_id;not null;default:''" json:"customer_id"`
	CustomerName string           `gorm:"column:customer_name;not null;default:''" json:"customer_name"`
	Lines        types.OrderItems `gorm:"column:lines;type:text;serializer:json" json:"lines"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Total sums the staged lines.
func (c CartRecord) Total() int {
	return c.Lines.Total()
}
