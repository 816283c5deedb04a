package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/pkg/database"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// OrderRepository implements order persistence using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order with its line items in one transaction. Each
// line decrements the product's stock; a line that would drive stock
// negative aborts the whole order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, "CreateOrder", "INSERT INTO orders")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	orderQuery := `
		INSERT INTO orders (id, session_id, customer_name, email, address, status, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.SessionID,
		order.CustomerName,
		order.Email,
		order.Address,
		order.Status,
		order.TotalPrice,
		order.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	stockQuery := `
		UPDATE products
		SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND stock >= $1`

	for _, item := range order.Items {
		if _, err = tx.Exec(ctx, itemQuery,
			item.ID,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}

		var ct pgconn.CommandTag
		ct, err = tx.Exec(ctx, stockQuery, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() == 0 {
			err = apperrors.InvalidInput(fmt.Sprintf("not enough stock for %s", item.ProductName))
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (_ *domain.Order, err error) {
	query := `
		SELECT id, session_id, customer_name, email, address, status, total_price, created_at
		FROM orders
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetOrder", query)
	defer func() { end(err) }()

	var o domain.Order

	err = r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.SessionID,
		&o.CustomerName,
		&o.Email,
		&o.Address,
		&o.Status,
		&o.TotalPrice,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if o.Items, err = r.listItems(ctx, []string{o.ID}); err != nil {
		return nil, err
	}

	return &o, nil
}

// ListBySession returns a session's orders with their items, newest first.
func (r *OrderRepository) ListBySession(ctx context.Context, sessionID string) (_ []domain.Order, err error) {
	query := `
		SELECT id, session_id, customer_name, email, address, status, total_price, created_at
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListOrders", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []string{}
	for rows.Next() {
		var o domain.Order

		if err = rows.Scan(
			&o.ID,
			&o.SessionID,
			&o.CustomerName,
			&o.Email,
			&o.Address,
			&o.Status,
			&o.TotalPrice,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.listItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}

	return orders, nil
}

// listItems fetches line items for the given orders in one query.
func (r *OrderRepository) listItems(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem

		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}
