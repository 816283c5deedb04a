package domain

import (
	"time"
)

// Order statuses.
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// Order is a placed checkout. Item prices are frozen at placement time so
// later catalog edits do not rewrite order history.
type Order struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	Status       string      `json:"status"`
	TotalPrice   int64       `json:"total_price"`
	Items        []OrderItem `json:"items,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// OrderItem is one product line captured at checkout, with the unit price
// in cents as charged.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// LineTotal returns the line's charge in cents.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
