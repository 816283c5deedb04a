package domain

import (
	"time"
)

// Rating bounds for star ratings.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// MaxCommentLength is the longest comment body accepted, in characters.
const MaxCommentLength = 1000

// Vote directions for comment votes.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Rating is a single star rating (1-5) left by a named rater. At most one
// rating is kept per (product, rater) pair; re-rating updates the prior value.
type Rating struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserName  string    `json:"user_name"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a free-text review of a product. SentimentScore is derived from
// the body at write time and lives on a 1-10 scale; nil means not yet scored.
type Comment struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	UserName       string    `json:"user_name"`
	Body           string    `json:"body"`
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	UpVotes        int       `json:"up_votes"`
	DownVotes      int       `json:"down_votes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CommentVote records a single voter's +1/-1 on a comment. A voter holds at
// most one live vote per comment.
type CommentVote struct {
	ID        string    `json:"id"`
	CommentID string    `json:"comment_id"`
	UserName  string    `json:"user_name"`
	Direction int       `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteResult is the tally returned after a vote is applied.
type VoteResult struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// RatingStats holds per-product aggregates derived from the rating and
// comment sets. Averages are nil when the backing set is empty so callers
// can distinguish "no ratings" from a genuine zero.
type RatingStats struct {
	ProductID        string   `json:"product_id"`
	RatingCount      int      `json:"rating_count"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	CommentCount     int      `json:"comment_count"`
	AverageSentiment *float64 `json:"average_sentiment,omitempty"`
}

// IsValidRatingValue checks whether v is an accepted star value.
func IsValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

// IsValidVoteDirection checks whether d is +1 or -1.
func IsValidVoteDirection(d int) bool {
	return d == VoteUp || d == VoteDown
}
