package domain

import (
	"time"
)

// CartItem is one product line in a session-scoped cart. Adding a product
// already in the cart merges quantities rather than creating a second line.
type CartItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// LineTotal returns the line's price contribution in cents.
func (l CartLine) LineTotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CartTotal sums line totals in cents.
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}
