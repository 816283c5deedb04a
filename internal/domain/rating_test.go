package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Rating and Vote Validation Tests
// ============================================================================

func TestIsValidRatingValue(t *testing.T) {
	for v := MinRatingValue; v <= MaxRatingValue; v++ {
		assert.True(t, IsValidRatingValue(v), "value %d", v)
	}
	assert.False(t, IsValidRatingValue(0))
	assert.False(t, IsValidRatingValue(6))
	assert.False(t, IsValidRatingValue(-1))
}

func TestIsValidVoteDirection(t *testing.T) {
	assert.True(t, IsValidVoteDirection(VoteUp))
	assert.True(t, IsValidVoteDirection(VoteDown))
	assert.False(t, IsValidVoteDirection(0))
	assert.False(t, IsValidVoteDirection(2))
}

// ============================================================================
// Sort Key Validation Tests
// ============================================================================

func TestIsValidSortBy(t *testing.T) {
	for _, v := range ValidSortByValues() {
		assert.True(t, IsValidSortBy(v), "sort %q", v)
	}
	assert.True(t, IsValidSortBy(""))
	assert.False(t, IsValidSortBy("rating"))
	assert.False(t, IsValidSortBy("NEWEST"))
}

// ============================================================================
// Cart and Order Arithmetic Tests
// ============================================================================

func TestCartTotal(t *testing.T) {
	lines := []CartLine{
		{CartItem: CartItem{Quantity: 2}, Product: Product{Price: 1999}},
		{CartItem: CartItem{Quantity: 1}, Product: Product{Price: 4550}},
	}
	assert.Equal(t, int64(8548), CartTotal(lines))
	assert.Equal(t, int64(0), CartTotal(nil))
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPrice: 1250}
	assert.Equal(t, int64(3750), item.LineTotal())
}

func TestProductInStock(t *testing.T) {
	assert.True(t, Product{Stock: 1}.InStock())
	assert.False(t, Product{Stock: 0}.InStock())
}
