package types

// OrderItem is a frozen copy of a product line at the moment it entered an
// order. Later product edits never change it.
type OrderItem struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Qty       int    `json:"qty"`
}

// OrderItems is stored as a single JSON column on the order row.
type OrderItems []OrderItem

// Total sums price*qty across all items.
func (items OrderItems) Total() int {
	total := 0
	for _, item := range items {
		total += item.Price * item.Qty
	}
	return total
}

// IndexOf returns the position of the line for productID, or -1.
func (items OrderItems) IndexOf(productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to freeze into an audit snapshot.
func (items OrderItems) Clone() OrderItems {
	if items == nil {
		return nil
	}
	out := make(OrderItems, len(items))
	copy(out, items)
	return out
}
