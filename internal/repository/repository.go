package repository

import (
	"context"
	"time"

	"github.com/pawmart/PetShopGo/internal/domain"
)

// ProductFilter defines filter criteria for listing products at the store
// level. Badge/bucket/owner filtering happens in the domain layer over the
// annotated list, not here.
type ProductFilter struct {
	Category *string
	OwnerUID *string
	Search   *string
	SortBy   string
	Page     int
	PerPage  int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByName retrieves a product by its exact name.
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// ListCategories returns the distinct non-empty categories in the catalog.
	ListCategories(ctx context.Context) ([]string, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// AdjustStock atomically changes a product's stock by delta, refusing to
	// go below zero.
	AdjustStock(ctx context.Context, id string, delta int) error

	// Delete removes a product and its ratings/comments from the store.
	Delete(ctx context.Context, id string) error
}

// RatingRepository defines the interface for star-rating persistence.
type RatingRepository interface {
	// Upsert inserts the rater's rating or updates their prior one.
	Upsert(ctx context.Context, rating *domain.Rating) error

	// ListByProductID returns all ratings for one product.
	ListByProductID(ctx context.Context, productID string) ([]domain.Rating, error)

	// ListByProductIDs returns all ratings across the given products in one
	// query, for batched aggregation.
	ListByProductIDs(ctx context.Context, productIDs []string) ([]domain.Rating, error)
}

// CommentRepository defines the interface for comment and vote persistence.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByProductID returns one product's comments with vote tallies,
	// newest first.
	ListByProductID(ctx context.Context, productID string) ([]domain.Comment, error)

	// ListByProductIDs returns all comments across the given products in one
	// query, for batched aggregation.
	ListByProductIDs(ctx context.Context, productIDs []string) ([]domain.Comment, error)

	// Update rewrites a comment's body and sentiment score.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment and its votes.
	Delete(ctx context.Context, id string) error

	// GetVote returns the voter's live vote on a comment, or ErrNotFound.
	GetVote(ctx context.Context, commentID, userName string) (*domain.CommentVote, error)

	// CreateVote inserts the voter's first vote on a comment; a duplicate
	// vote by the same voter is a Conflict.
	CreateVote(ctx context.Context, vote *domain.CommentVote) error

	// SwitchVote flips the direction of the voter's existing vote.
	SwitchVote(ctx context.Context, commentID, userName string, direction int) error

	// CountVotes tallies a comment's up and down votes.
	CountVotes(ctx context.Context, commentID string) (domain.VoteResult, error)
}

// CartRepository defines the interface for session-cart persistence.
type CartRepository interface {
	// AddItem inserts a cart line or merges the quantity into an existing
	// line for the same (session, product).
	AddItem(ctx context.Context, item *domain.CartItem) error

	// GetItem retrieves a cart line by its identifier.
	GetItem(ctx context.Context, id string) (*domain.CartItem, error)

	// ListBySession returns a session's cart lines joined with products.
	ListBySession(ctx context.Context, sessionID string) ([]domain.CartLine, error)

	// UpdateQuantity sets a cart line's quantity.
	UpdateQuantity(ctx context.Context, id string, quantity int) error

	// RemoveItem deletes a cart line.
	RemoveItem(ctx context.Context, id string) error

	// ClearSession deletes all of a session's cart lines.
	ClearSession(ctx context.Context, sessionID string) error
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create persists an order with its line items in one transaction,
	// decrementing product stock for each line.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// ListBySession returns a session's orders with items, newest first.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
}

// StatsCache caches per-product rating stats. Implementations must treat
// backend failures as cache misses; callers fall through to the store.
type StatsCache interface {
	// Get returns the cached stats for a product, or (nil, nil) on a miss.
	Get(ctx context.Context, productID string) (*domain.RatingStats, error)

	// Set stores stats with the given TTL.
	Set(ctx context.Context, stats *domain.RatingStats, ttl time.Duration) error

	// Invalidate drops the cached stats for a product.
	Invalidate(ctx context.Context, productID string) error
}
