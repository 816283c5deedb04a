package domain

// Sentiment scale bounds. Scores outside this range are clamped; values that
// look like raw [-1,1] polarity are linearly mapped onto the scale first.
const (
	MinSentimentScore     = 1.0
	MaxSentimentScore     = 10.0
	NeutralSentimentScore = 5.5
)

// NormalizeSentiment maps a stored sentiment value onto the 1-10 scale.
// Only values strictly below the scale minimum are treated as legacy
// [-1,1) polarity and mapped linearly (p -> 5.5 + 4.5*p). The scales share
// the boundary value 1.0; it reads as the on-scale minimum, since every
// score this system writes is already on-scale.
func NormalizeSentiment(score float64) float64 {
	if score < MinSentimentScore {
		if score >= -1.0 {
			return NeutralSentimentScore + 4.5*score
		}
		return MinSentimentScore
	}
	return ClampSentiment(score)
}

// ClampSentiment bounds a score into the [1,10] sentiment scale.
func ClampSentiment(score float64) float64 {
	if score < MinSentimentScore {
		return MinSentimentScore
	}
	if score > MaxSentimentScore {
		return MaxSentimentScore
	}
	return score
}

// ComputeStats aggregates one product's ratings and comments into a
// RatingStats. Averages are left nil when the backing set is empty.
// Comments without a sentiment score count toward CommentCount but are
// excluded from the sentiment average.
func ComputeStats(productID string, ratings []Rating, comments []Comment) RatingStats {
	stats := RatingStats{ProductID: productID}

	var ratingSum float64
	for _, r := range ratings {
		if r.ProductID != productID {
			continue
		}
		stats.RatingCount++
		ratingSum += float64(r.Value)
	}
	if stats.RatingCount > 0 {
		avg := ratingSum / float64(stats.RatingCount)
		stats.AverageRating = &avg
	}

	var sentimentSum float64
	var scored int
	for _, c := range comments {
		if c.ProductID != productID {
			continue
		}
		stats.CommentCount++
		if c.SentimentScore != nil {
			sentimentSum += NormalizeSentiment(*c.SentimentScore)
			scored++
		}
	}
	if scored > 0 {
		avg := sentimentSum / float64(scored)
		stats.AverageSentiment = &avg
	}

	return stats
}

// ComputeStatsByProduct aggregates ratings and comments spanning many
// products in a single pass, keyed by product id. Products present in
// neither input are absent from the result; callers treat a missing entry
// as zero ratings and zero comments.
func ComputeStatsByProduct(ratings []Rating, comments []Comment) map[string]RatingStats {
	type acc struct {
		ratingSum    float64
		ratingCount  int
		sentimentSum float64
		scored       int
		commentCount int
	}

	accs := make(map[string]*acc)
	get := func(productID string) *acc {
		a, ok := accs[productID]
		if !ok {
			a = &acc{}
			accs[productID] = a
		}
		return a
	}

	for _, r := range ratings {
		a := get(r.ProductID)
		a.ratingCount++
		a.ratingSum += float64(r.Value)
	}
	for _, c := range comments {
		a := get(c.ProductID)
		a.commentCount++
		if c.SentimentScore != nil {
			a.sentimentSum += NormalizeSentiment(*c.SentimentScore)
			a.scored++
		}
	}

	stats := make(map[string]RatingStats, len(accs))
	for productID, a := range accs {
		s := RatingStats{
			ProductID:    productID,
			RatingCount:  a.ratingCount,
			CommentCount: a.commentCount,
		}
		if a.ratingCount > 0 {
			avg := a.ratingSum / float64(a.ratingCount)
			s.AverageRating = &avg
		}
		if a.scored > 0 {
			avg := a.sentimentSum / float64(a.scored)
			s.AverageSentiment = &avg
		}
		stats[productID] = s
	}
	return stats
}
