package enums

import "fmt"

// OrderStatus is the lifecycle state of an order. Completed orders may be
// edited in place or move to one of the two terminal states; terminal
// orders never change again except for remaining visible in the ledger.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefunded  OrderStatus = "refunded"
	OrderStatusDeleted   OrderStatus = "deleted"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCompleted,
	OrderStatusRefunded,
	OrderStatusDeleted,
}

// IsValid reports whether the value matches the canonical order status enum.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further mutation.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusRefunded || o == OrderStatusDeleted
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
