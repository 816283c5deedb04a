package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/internal/repository"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// CartService implements the business logic for session carts.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// AddToCartInput holds the parameters for adding a product to a cart.
type AddToCartInput struct {
	SessionID string
	ProductID string
	Quantity  int
}

// Cart is a session's cart lines with the running total in cents.
type Cart struct {
	Items      []domain.CartLine `json:"items"`
	TotalPrice int64             `json:"total_price"`
}

// AddToCart adds a product to the session's cart, merging quantity into an
// existing line for the same product. Out-of-stock products are rejected.
func (s *CartService) AddToCart(ctx context.Context, input *AddToCartInput) (*domain.CartItem, error) {
	if input.SessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product for cart: %w", err)
	}
	if !product.InStock() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("product %q is out of stock", product.Name))
	}

	now := time.Now().UTC()
	item := &domain.CartItem{
		ID:        uuid.New().String(),
		SessionID: input.SessionID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.carts.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("session_id", input.SessionID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return item, nil
}

// GetCart returns the session's cart lines joined with products, plus the
// cart total.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	lines, err := s.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	return &Cart{
		Items:      lines,
		TotalPrice: domain.CartTotal(lines),
	}, nil
}

// UpdateItemQuantity sets a cart line's quantity.
func (s *CartService) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	if err := s.carts.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	return nil
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// ClearCart empties the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.carts.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
