package domain

import "time"

// OrderItem is the subset of a product record that gets frozen into an
// order at checkout time.
type OrderItem struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Price  string `json:"price"`
	Image  string `json:"image,omitempty"`
}

// Order is a completed checkout. Total is computed with sum-mode price
// parsing at checkout time and stored, so later display never re-parses.
type Order struct {
	ID     string      `json:"id"`
	Date   time.Time   `json:"date"`
	Total  float64     `json:"total"`
	Method string      `json:"method"`
	Items  []OrderItem `json:"items"`
}

// Payment methods accepted at checkout.
const (
	PaymentCard = "card"
	PaymentUPI  = "upi"
	PaymentCOD  = "cod"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCard || m == PaymentUPI || m == PaymentCOD
}
