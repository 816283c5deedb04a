package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/PetShopGo/internal/domain"
	"github.com/pawmart/PetShopGo/internal/event"
	"github.com/pawmart/PetShopGo/internal/repository"
	"github.com/pawmart/PetShopGo/internal/sentiment"
	apperrors "github.com/pawmart/PetShopGo/pkg/errors"
)

// ReviewService implements the business logic for ratings, comments, and
// comment votes. Per-product aggregates are served cache-aside: a cache
// failure is treated as a miss and the stats are recomputed from the store.
type ReviewService struct {
	products repository.ProductRepository
	ratings  repository.RatingRepository
	comments repository.CommentRepository
	cache    repository.StatsCache
	scorer   sentiment.Scorer
	producer *event.Producer
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewReviewService creates a new review service.
func NewReviewService(
	products repository.ProductRepository,
	ratings repository.RatingRepository,
	comments repository.CommentRepository,
	cache repository.StatsCache,
	scorer sentiment.Scorer,
	producer *event.Producer,
	logger *slog.Logger,
	cacheTTL time.Duration,
) *ReviewService {
	return &ReviewService{
		products: products,
		ratings:  ratings,
		comments: comments,
		cache:    cache,
		scorer:   scorer,
		producer: producer,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// SubmitRatingInput holds the parameters for submitting a star rating.
type SubmitRatingInput struct {
	ProductID string
	UserName  string
	Value     int
}

// AddCommentInput holds the parameters for adding a comment.
type AddCommentInput struct {
	ProductID string
	UserName  string
	Body      string
}

// VoteInput holds the parameters for voting on a comment.
type VoteInput struct {
	CommentID string
	UserName  string
	Direction int
}

// SubmitRating records a user's star rating for a product. A repeat
// submission by the same user replaces their earlier rating.
func (s *ReviewService) SubmitRating(ctx context.Context, input *SubmitRatingInput) (*domain.Rating, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if !domain.IsValidRatingValue(input.Value) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRatingValue, domain.MaxRatingValue))
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for rating: %w", err)
	}

	now := time.Now().UTC()
	rating := &domain.Rating{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserName:  input.UserName,
		Value:     input.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	s.invalidateStats(ctx, input.ProductID)

	if err := s.producer.PublishRatingSubmitted(ctx, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.submitted event",
			slog.String("product_id", rating.ProductID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "rating submitted",
		slog.String("product_id", rating.ProductID),
		slog.String("user_name", rating.UserName),
		slog.Int("value", rating.Value),
	)

	return rating, nil
}

// ListRatings returns all ratings for a product.
func (s *ReviewService) ListRatings(ctx context.Context, productID string) ([]domain.Rating, error) {
	ratings, err := s.ratings.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// GetStats returns a product's rating aggregates, serving from cache when
// possible and recomputing from the store on a miss.
func (s *ReviewService) GetStats(ctx context.Context, productID string) (*domain.RatingStats, error) {
	if cached, err := s.cache.Get(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "stats cache read failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	} else if cached != nil {
		return cached, nil
	}

	ratings, err := s.ratings.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for stats: %w", err)
	}
	comments, err := s.comments.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments for stats: %w", err)
	}

	stats := domain.ComputeStats(productID, ratings, comments)

	if err := s.cache.Set(ctx, &stats, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "stats cache write failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return &stats, nil
}

// StatsSummary bundles a product's aggregates with the presentation fields
// derived from them.
type StatsSummary struct {
	Stats   domain.RatingStats   `json:"stats"`
	Badge   string               `json:"badge"`
	Display domain.DisplayRating `json:"display_rating"`
}

// GetStatsSummary returns a product's aggregates together with its badge and
// display rating.
func (s *ReviewService) GetStatsSummary(ctx context.Context, productID string) (*StatsSummary, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product for stats: %w", err)
	}

	stats, err := s.GetStats(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &StatsSummary{
		Stats:   *stats,
		Badge:   domain.AssignBadge(*stats, product.Category, product.CreatedAt, time.Now().UTC()),
		Display: domain.ComputeDisplayRating(*stats),
	}, nil
}

// AddComment records a user's comment on a product, scoring its sentiment
// from the body at write time.
func (s *ReviewService) AddComment(ctx context.Context, input *AddCommentInput) (*domain.Comment, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if input.Body == "" {
		return nil, apperrors.InvalidInput("comment body is required")
	}
	if len(input.Body) > domain.MaxCommentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", domain.MaxCommentLength))
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for comment: %w", err)
	}

	score := s.scorer.Score(input.Body)
	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		UserName:       input.UserName,
		Body:           input.Body,
		SentimentScore: &score,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.invalidateStats(ctx, input.ProductID)

	if err := s.producer.PublishCommentAdded(ctx, comment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish comment.added event",
			slog.String("comment_id", comment.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "comment added",
		slog.String("comment_id", comment.ID),
		slog.String("product_id", comment.ProductID),
		slog.Float64("sentiment_score", score),
	)

	return comment, nil
}

// ListComments returns a product's comments with vote tallies, newest first.
func (s *ReviewService) ListComments(ctx context.Context, productID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment rewrites a comment's body and re-scores its sentiment. Only
// the comment's author may edit it.
func (s *ReviewService) UpdateComment(ctx context.Context, id, userName, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, apperrors.InvalidInput("comment body is required")
	}
	if len(body) > domain.MaxCommentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", domain.MaxCommentLength))
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment for update: %w", err)
	}
	if comment.UserName != userName {
		return nil, apperrors.Conflict("only the comment author may edit it")
	}

	score := s.scorer.Score(body)
	comment.Body = body
	comment.SentimentScore = &score
	comment.UpdatedAt = time.Now().UTC()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.invalidateStats(ctx, comment.ProductID)

	s.logger.InfoContext(ctx, "comment updated",
		slog.String("comment_id", comment.ID),
		slog.Float64("sentiment_score", score),
	)

	return comment, nil
}

// DeleteComment removes a comment and its votes. Only the comment's author
// may delete it.
func (s *ReviewService) DeleteComment(ctx context.Context, id, userName string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get comment for delete: %w", err)
	}
	if comment.UserName != userName {
		return apperrors.Conflict("only the comment author may delete it")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.invalidateStats(ctx, comment.ProductID)

	if err := s.producer.PublishCommentDeleted(ctx, id, comment.ProductID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish comment.deleted event",
			slog.String("comment_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "comment deleted",
		slog.String("comment_id", id),
		slog.String("product_id", comment.ProductID),
	)

	return nil
}

// VoteComment applies an up or down vote to a comment and returns the new
// tally. A repeat vote in the same direction is rejected; a vote in the
// opposite direction switches the voter's existing vote.
func (s *ReviewService) VoteComment(ctx context.Context, input *VoteInput) (*domain.VoteResult, error) {
	if input.UserName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if !domain.IsValidVoteDirection(input.Direction) {
		return nil, apperrors.InvalidInput("vote direction must be up or down")
	}

	if _, err := s.comments.GetByID(ctx, input.CommentID); err != nil {
		return nil, fmt.Errorf("get comment for vote: %w", err)
	}

	existing, err := s.comments.GetVote(ctx, input.CommentID, input.UserName)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get existing vote: %w", err)
	}

	if existing != nil {
		if existing.Direction == input.Direction {
			return nil, apperrors.Conflict("vote already recorded for this comment")
		}
		if err := s.comments.SwitchVote(ctx, input.CommentID, input.UserName, input.Direction); err != nil {
			return nil, fmt.Errorf("switch vote: %w", err)
		}
	} else {
		vote := &domain.CommentVote{
			ID:        uuid.New().String(),
			CommentID: input.CommentID,
			UserName:  input.UserName,
			Direction: input.Direction,
			CreatedAt: time.Now().UTC(),
		}
		// A concurrent duplicate slips past the GetVote check; the insert's
		// unique constraint surfaces it as a Conflict.
		if err := s.comments.CreateVote(ctx, vote); err != nil {
			return nil, fmt.Errorf("create vote: %w", err)
		}
	}

	result, err := s.comments.CountVotes(ctx, input.CommentID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	s.logger.InfoContext(ctx, "comment vote recorded",
		slog.String("comment_id", input.CommentID),
		slog.Int("direction", input.Direction),
	)

	return &result, nil
}

// invalidateStats drops the cached aggregates for a product after a write.
// Cache failures are logged, never surfaced.
func (s *ReviewService) invalidateStats(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "stats cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
