package enums

import "fmt"

// PaymentMethod describes how an order was settled at the counter.
type PaymentMethod string

const (
	// PaymentMethodCash is settled immediately.
	PaymentMethodCash PaymentMethod = "cash"
	// PaymentMethodTab accrues against the crew member's running balance.
	PaymentMethodTab PaymentMethod = "tab"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodTab,
}

// IsValid reports whether the value matches the canonical payment method enum.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts the raw string to PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
