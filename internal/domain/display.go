package domain

import (
	"math"
)

// sentimentWeight bounds how far sentiment can pull the display rating away
// from the raw star average (at most half a star either way).
const sentimentWeight = 0.5

// DisplayRating is the blended star value shown in the catalog grid.
// Precise carries the unrounded combined score; Stars is snapped to the
// nearest half star for glyph rendering only. NoRatings distinguishes
// "no ratings yet" from a genuine zero.
type DisplayRating struct {
	Stars     float64 `json:"stars"`
	Precise   float64 `json:"precise"`
	NoRatings bool    `json:"no_ratings"`
}

// SnapToHalf rounds a star value to the nearest 0.5 increment. Used only at
// the rendering boundary; comparisons and storage keep the precise value.
func SnapToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// ComputeDisplayRating blends the star average with the sentiment average
// into a single display rating. Sentiment contributes an adjustment in
// [-0.5,+0.5] derived from its distance from the neutral midpoint; a product
// without comments gets no adjustment. Zero ratings yields a zero value
// flagged NoRatings.
func ComputeDisplayRating(stats RatingStats) DisplayRating {
	if stats.RatingCount == 0 || stats.AverageRating == nil {
		return DisplayRating{NoRatings: true}
	}

	var polarity float64
	if stats.AverageSentiment != nil {
		polarity = (*stats.AverageSentiment - NeutralSentimentScore) / 4.5
	}
	combined := *stats.AverageRating + polarity*sentimentWeight
	if combined < 0 {
		combined = 0
	}
	if combined > float64(MaxRatingValue) {
		combined = float64(MaxRatingValue)
	}

	return DisplayRating{
		Stars:   SnapToHalf(combined),
		Precise: combined,
	}
}
