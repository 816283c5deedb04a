package postgres

import (
	"context"
	"fmt"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/pkg/database"
)

// RatingRepository implements rating persistence operations using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert inserts the rater's rating, or updates their existing one for the
// same product. One rating per (product, rater) is enforced by the unique
// constraint the conflict clause targets.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) (err error) {
	query := `
		INSERT INTO product_ratings (id, product_id, user_name, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, user_name)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "UpsertRating", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		rating.ID,
		rating.ProductID,
		rating.UserName,
		rating.Value,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

// ListByProductID returns all ratings for one product, newest first.
func (r *RatingRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Rating, error) {
	query := `
		SELECT id, product_id, user_name, rating, created_at, updated_at
		FROM product_ratings
		WHERE product_id = $1
		ORDER BY created_at DESC`

	return r.listRatings(ctx, "ListRatings", query, productID)
}

// ListByProductIDs returns all ratings across the given products in a
// single query, for batched aggregation over a listing page.
func (r *RatingRepository) ListByProductIDs(ctx context.Context, productIDs []string) ([]domain.Rating, error) {
	if len(productIDs) == 0 {
		return []domain.Rating{}, nil
	}

	query := `
		SELECT id, product_id, user_name, rating, created_at, updated_at
		FROM product_ratings
		WHERE product_id = ANY($1)`

	return r.listRatings(ctx, "ListRatingsByProducts", query, productIDs)
}

func (r *RatingRepository) listRatings(ctx context.Context, operation, query string, args ...any) (_ []domain.Rating, err error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []domain.Rating{}
	for rows.Next() {
		var rt domain.Rating

		if err = rows.Scan(
			&rt.ID,
			&rt.ProductID,
			&rt.UserName,
			&rt.Value,
			&rt.CreatedAt,
			&rt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}

		ratings = append(ratings, rt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}
