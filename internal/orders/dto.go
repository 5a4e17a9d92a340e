package orders

import (
	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	"github.com/harborline/slopchest-backend/pkg/types"
)

// CreateInput is a checkout request. SessionUserID, when set, is the
// cashier account whose staged cart is cleared in the same transaction.
type CreateInput struct {
	CustomerID    string
	Cashier       string
	Method        enums.PaymentMethod
	Lines         types.OrderItems
	SessionUserID string
}

// EditInput replaces the line items of a completed order in place.
type EditInput struct {
	OrderID string
	Cashier string
	Lines   types.OrderItems
}

// DayGroup is one calendar day's receipts, newest receipt first.
type DayGroup struct {
	Date   string         `json:"date"`
	Orders []models.Order `json:"orders"`
}

// RevenueSummary aggregates a day range for the stats view. Deleted
// orders are excluded entirely; refunded receipts count toward the
// receipt total but their value moves to the refund column.
type RevenueSummary struct {
	ReceiptCount int `json:"receipt_count"`
	SalesTotal   int `json:"sales_total"`
	RefundTotal  int `json:"refund_total"`
	NetRevenue   int `json:"net_revenue"`
}
