package domain

import (
	"time"
)

// Product sort options accepted by the catalog listing.
const (
	SortByNewest    = "newest"
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
	SortByNameAsc   = "name_asc"
	SortByNameDesc  = "name_desc"
)

// Product represents a pet product in the catalog. Price is stored in cents.
// MaxStock is the seller-declared shelf capacity; nil means unknown capacity.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Stock       int       `json:"stock"`
	MaxStock    *int      `json:"max_stock,omitempty"`
	OwnerUID    string    `json:"owner_uid"`
	OwnerName   string    `json:"owner_name,omitempty"`
	OwnerHandle string    `json:"owner_handle,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ValidSortByValues returns the set of accepted catalog sort keys.
func ValidSortByValues() []string {
	return []string{SortByNewest, SortByPriceAsc, SortByPriceDesc, SortByNameAsc, SortByNameDesc}
}

// IsValidSortBy checks whether the given sort key is accepted. The empty
// string is valid and means "default order".
func IsValidSortBy(sortBy string) bool {
	if sortBy == "" {
		return true
	}
	for _, v := range ValidSortByValues() {
		if v == sortBy {
			return true
		}
	}
	return false
}
