package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/pkg/database"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// CartRepository implements session-cart persistence using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// AddItem inserts a cart line, or merges the quantity into the existing line
// for the same (session, product).
func (r *CartRepository) AddItem(ctx context.Context, item *domain.CartItem) (err error) {
	query := `
		INSERT INTO cart_items (id, session_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "AddCartItem", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		item.ID,
		item.SessionID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

// GetItem retrieves a cart line by its ID.
func (r *CartRepository) GetItem(ctx context.Context, id string) (_ *domain.CartItem, err error) {
	query := `
		SELECT id, session_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetCartItem", query)
	defer func() { end(err) }()

	var item domain.CartItem

	err = r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.SessionID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", id)
		}
		return nil, fmt.Errorf("scan cart item: %w", err)
	}

	return &item, nil
}

// ListBySession returns a session's cart lines joined with their products,
// oldest line first.
func (r *CartRepository) ListBySession(ctx context.Context, sessionID string) (_ []domain.CartLine, err error) {
	query := `
		SELECT ci.id, ci.session_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       ` + aliasedProductColumns("p") + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.session_id = $1
		ORDER BY ci.created_at ASC`

	ctx, end := database.TraceQuery(ctx, "ListCartItems", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine

		if err = rows.Scan(
			&l.ID,
			&l.SessionID,
			&l.ProductID,
			&l.Quantity,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.Product.ID,
			&l.Product.Name,
			&l.Product.Slug,
			&l.Product.Description,
			&l.Product.Price,
			&l.Product.ImageURL,
			&l.Product.Category,
			&l.Product.Stock,
			&l.Product.MaxStock,
			&l.Product.OwnerUID,
			&l.Product.OwnerName,
			&l.Product.OwnerHandle,
			&l.Product.CreatedAt,
			&l.Product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}

		lines = append(lines, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}

// UpdateQuantity sets a cart line's quantity.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (err error) {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = now()
		WHERE id = $2`

	ctx, end := database.TraceQuery(ctx, "UpdateCartQuantity", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", id)
	}

	return nil
}

// RemoveItem deletes a cart line.
func (r *CartRepository) RemoveItem(ctx context.Context, id string) (err error) {
	query := `DELETE FROM cart_items WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "RemoveCartItem", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", id)
	}

	return nil
}

// ClearSession deletes all of a session's cart lines.
func (r *CartRepository) ClearSession(ctx context.Context, sessionID string) (err error) {
	query := `DELETE FROM cart_items WHERE session_id = $1`

	ctx, end := database.TraceQuery(ctx, "ClearCart", query)
	defer func() { end(err) }()

	if _, err = r.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

// aliasedProductColumns prefixes the product column list with a table alias.
func aliasedProductColumns(alias string) string {
	return alias + ".id, " + alias + ".name, " + alias + ".slug, " + alias + ".description, " +
		alias + ".price, " + alias + ".image_url, " + alias + ".category, " + alias + ".stock, " +
		alias + ".max_stock, " + alias + ".owner_uid, " + alias + ".owner_name, " +
		alias + ".owner_handle, " + alias + ".created_at, " + alias + ".updated_at"
}
