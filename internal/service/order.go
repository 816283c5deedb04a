package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/internal/event"
	"github.com/pawmart/PetShopGo/internal/repository"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// OrderService implements the checkout flow: it turns a session's cart into
// an order with frozen prices, then empties the cart.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrderInput holds the checkout parameters.
type PlaceOrderInput struct {
	SessionID    string
	CustomerName string
	Email        string
	Address      string
}

// PlaceOrder creates an order from the session's cart. Unit prices are
// captured at checkout time, stock is decremented per line, and the cart is
// cleared on success.
func (s *OrderService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*domain.Order, error) {
	if input.SessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.CustomerName == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, apperrors.InvalidInput("a valid email is required")
	}
	if input.Address == "" {
		return nil, apperrors.InvalidInput("shipping address is required")
	}

	lines, err := s.carts.ListBySession(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart for checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	orderID := uuid.New().String()
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Product.Price,
		}
	}

	order := &domain.Order{
		ID:           orderID,
		SessionID:    input.SessionID,
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Address:      input.Address,
		Status:       domain.OrderStatusConfirmed,
		TotalPrice:   domain.CartTotal(lines),
		Items:        items,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.ClearSession(ctx, input.SessionID); err != nil {
		// The order is already committed; an uncleaned cart is recoverable.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("order_id", order.ID),
			slog.String("session_id", input.SessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns a session's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, sessionID string) ([]domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	orders, err := s.orders.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
