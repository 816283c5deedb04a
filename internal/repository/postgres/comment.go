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

// commentColumns selects a comment with its vote tallies folded in.
const commentColumns = `
	c.id, c.product_id, c.user_name, c.body, c.sentiment_score,
	COALESCE(SUM(CASE WHEN v.direction = 1 THEN 1 ELSE 0 END), 0) AS up_votes,
	COALESCE(SUM(CASE WHEN v.direction = -1 THEN 1 ELSE 0 END), 0) AS down_votes,
	c.created_at, c.updated_at`

// CommentRepository implements comment and vote persistence using PostgreSQL.
type CommentRepository struct {
	pool database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(pool database.DBTX) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment into the database.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (err error) {
	query := `
		INSERT INTO product_comments (id, product_id, user_name, body, sentiment_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, end := database.TraceQuery(ctx, "CreateComment", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.ProductID,
		c.UserName,
		c.Body,
		c.SentimentScore,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment with its vote tallies.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (_ *domain.Comment, err error) {
	query := `
		SELECT ` + commentColumns + `
		FROM product_comments c
		LEFT JOIN product_comment_votes v ON v.comment_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`

	ctx, end := database.TraceQuery(ctx, "GetComment", query)
	defer func() { end(err) }()

	var c domain.Comment

	err = r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ProductID,
		&c.UserName,
		&c.Body,
		&c.SentimentScore,
		&c.UpVotes,
		&c.DownVotes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("comment", id)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &c, nil
}

// ListByProductID returns one product's comments with vote tallies, newest first.
func (r *CommentRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM product_comments c
		LEFT JOIN product_comment_votes v ON v.comment_id = c.id
		WHERE c.product_id = $1
		GROUP BY c.id
		ORDER BY c.created_at DESC`

	return r.listComments(ctx, "ListComments", query, productID)
}

// ListByProductIDs returns all comments across the given products in a
// single query, for batched aggregation over a listing page.
func (r *CommentRepository) ListByProductIDs(ctx context.Context, productIDs []string) ([]domain.Comment, error) {
	if len(productIDs) == 0 {
		return []domain.Comment{}, nil
	}

	query := `
		SELECT ` + commentColumns + `
		FROM product_comments c
		LEFT JOIN product_comment_votes v ON v.comment_id = c.id
		WHERE c.product_id = ANY($1)
		GROUP BY c.id`

	return r.listComments(ctx, "ListCommentsByProducts", query, productIDs)
}

// Update rewrites a comment's body and sentiment score.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) (err error) {
	query := `
		UPDATE product_comments
		SET body = $1, sentiment_score = $2, updated_at = $3
		WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateComment", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, c.Body, c.SentimentScore, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", c.ID)
	}

	return nil
}

// Delete removes a comment; its votes cascade via foreign key.
func (r *CommentRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM product_comments WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteComment", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}

// GetVote returns the voter's live vote on a comment.
func (r *CommentRepository) GetVote(ctx context.Context, commentID, userName string) (_ *domain.CommentVote, err error) {
	query := `
		SELECT id, comment_id, user_name, direction, created_at
		FROM product_comment_votes
		WHERE comment_id = $1 AND user_name = $2`

	ctx, end := database.TraceQuery(ctx, "GetCommentVote", query)
	defer func() { end(err) }()

	var v domain.CommentVote

	err = r.pool.QueryRow(ctx, query, commentID, userName).Scan(
		&v.ID,
		&v.CommentID,
		&v.UserName,
		&v.Direction,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment vote: %w", err)
	}

	return &v, nil
}

// CreateVote inserts the voter's first vote on a comment. The unique
// constraint on (comment_id, user_name) makes a concurrent duplicate a
// Conflict rather than a silent overwrite.
func (r *CommentRepository) CreateVote(ctx context.Context, vote *domain.CommentVote) (err error) {
	query := `
		INSERT INTO product_comment_votes (id, comment_id, user_name, direction, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, end := database.TraceQuery(ctx, "CreateCommentVote", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		vote.ID,
		vote.CommentID,
		vote.UserName,
		vote.Direction,
		vote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("vote already recorded for this comment")
		}
		return fmt.Errorf("create comment vote: %w", err)
	}

	return nil
}

// SwitchVote flips the direction of the voter's existing vote on a comment.
func (r *CommentRepository) SwitchVote(ctx context.Context, commentID, userName string, direction int) (err error) {
	query := `
		UPDATE product_comment_votes
		SET direction = $1
		WHERE comment_id = $2 AND user_name = $3`

	ctx, end := database.TraceQuery(ctx, "SwitchCommentVote", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, direction, commentID, userName)
	if err != nil {
		return fmt.Errorf("switch comment vote: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// CountVotes tallies a comment's up and down votes.
func (r *CommentRepository) CountVotes(ctx context.Context, commentID string) (_ domain.VoteResult, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN direction = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = -1 THEN 1 ELSE 0 END), 0)
		FROM product_comment_votes
		WHERE comment_id = $1`

	ctx, end := database.TraceQuery(ctx, "CountCommentVotes", query)
	defer func() { end(err) }()

	var result domain.VoteResult

	err = r.pool.QueryRow(ctx, query, commentID).Scan(&result.Up, &result.Down)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("count comment votes: %w", err)
	}

	return result, nil
}

func (r *CommentRepository) listComments(ctx context.Context, operation, query string, args ...any) (_ []domain.Comment, err error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment

		if err = rows.Scan(
			&c.ID,
			&c.ProductID,
			&c.UserName,
			&c.Body,
			&c.SentimentScore,
			&c.UpVotes,
			&c.DownVotes,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}

		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}
