package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/PetShopGo/internal/domain"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// --- Mock Order Repository ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// --- Test Helpers ---

func newTestOrderService(orders *mockOrderRepository, carts *mockCartRepository) *OrderService {
	return NewOrderService(orders, carts, newTestProducer(), newTestLogger())
}

func checkoutInput() *PlaceOrderInput {
	return &PlaceOrderInput{
		SessionID:    "sess-1",
		CustomerName: "Dana",
		Email:        "dana@example.com",
		Address:      "12 Bark Street",
	}
}

// --- Tests ---

func TestPlaceOrder_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)
	ctx := context.Background()

	carts.On("ListBySession", ctx, "sess-1").Return(sampleCartLines(), nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("ClearSession", ctx, "sess-1").Return(nil)

	order, err := svc.PlaceOrder(ctx, checkoutInput())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, int64(2598), order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "prod-1", order.Items[0].ProductID)
	assert.Equal(t, "Squeaky Bone", order.Items[0].ProductName)
	assert.Equal(t, int64(1299), order.Items[0].UnitPrice) // frozen at checkout
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	orders.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)
	ctx := context.Background()

	carts.On("ListBySession", ctx, "sess-1").Return([]domain.CartLine{}, nil)

	order, err := svc.PlaceOrder(ctx, checkoutInput())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "cart is empty")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlaceOrderInput)
	}{
		{
			name:   "missing session",
			mutate: func(in *PlaceOrderInput) { in.SessionID = "" },
		},
		{
			name:   "missing customer name",
			mutate: func(in *PlaceOrderInput) { in.CustomerName = "" },
		},
		{
			name:   "invalid email",
			mutate: func(in *PlaceOrderInput) { in.Email = "not-an-email" },
		},
		{
			name:   "missing address",
			mutate: func(in *PlaceOrderInput) { in.Address = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestOrderService(new(mockOrderRepository), new(mockCartRepository))

			input := checkoutInput()
			tt.mutate(input)

			order, err := svc.PlaceOrder(context.Background(), input)

			assert.Nil(t, order)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)
	ctx := context.Background()

	carts.On("ListBySession", ctx, "sess-1").Return(sampleCartLines(), nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).
		Return(apperrors.InvalidInput("not enough stock for Squeaky Bone"))

	order, err := svc.PlaceOrder(ctx, checkoutInput())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	carts.AssertNotCalled(t, "ClearSession", mock.Anything, mock.Anything)
}

func TestPlaceOrder_CartClearFailureIsSoft(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)
	ctx := context.Background()

	carts.On("ListBySession", ctx, "sess-1").Return(sampleCartLines(), nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("ClearSession", ctx, "sess-1").Return(fmt.Errorf("database error"))

	order, err := svc.PlaceOrder(ctx, checkoutInput())

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestGetOrder_NotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))
	ctx := context.Background()

	orders.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("order", "missing"))

	order, err := svc.GetOrder(ctx, "missing")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListOrders_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))
	ctx := context.Background()

	expected := []domain.Order{
		{ID: "order-2", SessionID: "sess-1", Status: domain.OrderStatusConfirmed},
		{ID: "order-1", SessionID: "sess-1", Status: domain.OrderStatusDelivered},
	}
	orders.On("ListBySession", ctx, "sess-1").Return(expected, nil)

	result, err := svc.ListOrders(ctx, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, expected, result)
}
