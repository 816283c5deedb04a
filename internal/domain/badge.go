package domain

import (
	"fmt"
	"time"
)

// Badge labels assigned to products based on their aggregate reception.
const (
	BadgeMostFavourite  = "Most Favourite"
	BadgeTryMe          = "Try Me"
	BadgeRecentlyAdded  = "Not rated / Recently added"
	BadgePetFavorite    = "Pet Favorite"
	badgePopularPattern = "Popular among %s"
)

// Sentiment thresholds for badge assignment. The ranges overlap; evaluation
// is strictly first-match-wins from the highest threshold down.
const (
	mostFavouriteThreshold = 8.0
	popularThreshold       = 6.5
	tryMeThreshold         = 4.5
)

// RecentlyAddedWindow is how long a product without comments keeps the
// "recently added" badge.
const RecentlyAddedWindow = 14 * 24 * time.Hour

// PopularBadge renders the category-specific popularity label. An empty
// category falls back to "pets".
func PopularBadge(category string) string {
	if category == "" {
		category = "pets"
	}
	return fmt.Sprintf(badgePopularPattern, category)
}

// AssignBadge classifies a product's aggregate stats into exactly one badge
// label. The sentiment thresholds are checked in descending order; when no
// sentiment average exists they are skipped entirely and the recency rule
// decides.
func AssignBadge(stats RatingStats, category string, createdAt, now time.Time) string {
	if stats.AverageSentiment != nil {
		avg := *stats.AverageSentiment
		switch {
		case avg >= mostFavouriteThreshold:
			return BadgeMostFavourite
		case avg >= popularThreshold:
			return PopularBadge(category)
		case avg >= tryMeThreshold:
			return BadgeTryMe
		}
	}
	if stats.CommentCount == 0 && now.Sub(createdAt) < RecentlyAddedWindow {
		return BadgeRecentlyAdded
	}
	return BadgePetFavorite
}
