package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func annotated(id, category, owner, badge string, ratingCount int, avgRating float64) AnnotatedProduct {
	stats := RatingStats{ProductID: id, RatingCount: ratingCount}
	if ratingCount > 0 {
		stats.AverageRating = floatPtr(avgRating)
	}
	return AnnotatedProduct{
		Product:   Product{ID: id, Category: category},
		Stats:     stats,
		Badge:     badge,
		OwnerName: owner,
	}
}

func productIDs(products []AnnotatedProduct) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.Product.ID)
	}
	return ids
}

// ============================================================================
// Rating Bucket Tests
// ============================================================================

func TestMatchesBucket_NoRatings(t *testing.T) {
	assert.True(t, MatchesBucket(RatingStats{}, BucketNoRatings))
	assert.False(t, MatchesBucket(RatingStats{RatingCount: 1, AverageRating: floatPtr(4.0)}, BucketNoRatings))
}

func TestMatchesBucket_Ranges(t *testing.T) {
	rated := func(avg float64) RatingStats {
		return RatingStats{RatingCount: 1, AverageRating: floatPtr(avg)}
	}

	assert.True(t, MatchesBucket(rated(4.5), BucketTop))
	assert.True(t, MatchesBucket(rated(5.0), BucketTop))
	assert.False(t, MatchesBucket(rated(4.49), BucketTop))

	assert.True(t, MatchesBucket(rated(4.0), BucketHigh))
	assert.True(t, MatchesBucket(rated(4.49), BucketHigh))
	assert.False(t, MatchesBucket(rated(4.5), BucketHigh))

	assert.True(t, MatchesBucket(rated(3.0), BucketMid))
	assert.False(t, MatchesBucket(rated(4.0), BucketMid))

	assert.True(t, MatchesBucket(rated(2.99), BucketLow))
	assert.False(t, MatchesBucket(rated(3.0), BucketLow))
}

func TestMatchesBucket_UnratedProductNeverMatchesRangedBuckets(t *testing.T) {
	for _, bucket := range []string{BucketTop, BucketHigh, BucketMid, BucketLow} {
		assert.False(t, MatchesBucket(RatingStats{}, bucket), "bucket %q", bucket)
	}
}

func TestMatchesBucket_UnknownKey(t *testing.T) {
	assert.False(t, MatchesBucket(RatingStats{RatingCount: 1, AverageRating: floatPtr(4.0)}, "5.0-6.0"))
}

// ============================================================================
// Filter Engine Tests
// ============================================================================

func TestFilterProducts_EmptySelectionIsIdentity(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
		annotated("p2", "cats", "bob", BadgePetFavorite, 0, 0),
		annotated("p3", "dogs", "alice", BadgeMostFavourite, 2, 4.8),
	}
	result := FilterProducts(products, NewFilterSelection(nil, nil, nil, nil))
	assert.Equal(t, products, result)
}

func TestFilterProducts_SingleCategory(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
		annotated("p2", "cats", "bob", BadgeTryMe, 1, 4.0),
	}
	result := FilterProducts(products, NewFilterSelection([]string{"dogs"}, nil, nil, nil))
	assert.Equal(t, []string{"p1"}, productIDs(result))
}

func TestFilterProducts_OrWithinDimension(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
		annotated("p2", "cats", "bob", BadgeTryMe, 1, 4.0),
		annotated("p3", "fish", "carol", BadgeTryMe, 1, 4.0),
	}
	result := FilterProducts(products, NewFilterSelection([]string{"dogs", "cats"}, nil, nil, nil))
	assert.Equal(t, []string{"p1", "p2"}, productIDs(result))
}

func TestFilterProducts_AndAcrossDimensions(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
		annotated("p2", "dogs", "bob", BadgeTryMe, 1, 4.0),
		annotated("p3", "cats", "alice", BadgeTryMe, 1, 4.0),
	}
	sel := NewFilterSelection([]string{"dogs"}, []string{"alice"}, nil, nil)
	assert.Equal(t, []string{"p1"}, productIDs(FilterProducts(products, sel)))
}

func TestFilterProducts_UnionLaw(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
		annotated("p2", "cats", "bob", BadgeTryMe, 1, 4.0),
		annotated("p3", "fish", "carol", BadgeTryMe, 1, 4.0),
		annotated("p4", "dogs", "dave", BadgeTryMe, 1, 4.0),
	}
	both := FilterProducts(products, NewFilterSelection([]string{"dogs", "cats"}, nil, nil, nil))
	onlyDogs := FilterProducts(products, NewFilterSelection([]string{"dogs"}, nil, nil, nil))
	onlyCats := FilterProducts(products, NewFilterSelection([]string{"cats"}, nil, nil, nil))

	union := make(map[string]bool)
	for _, p := range append(onlyDogs, onlyCats...) {
		union[p.Product.ID] = true
	}
	assert.Len(t, both, len(union))
	for _, p := range both {
		assert.True(t, union[p.Product.ID], "product %s", p.Product.ID)
	}
}

func TestFilterProducts_BadgeDimension(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeMostFavourite, 1, 4.8),
		annotated("p2", "dogs", "alice", BadgeTryMe, 1, 3.0),
	}
	sel := NewFilterSelection(nil, nil, []string{BadgeMostFavourite}, nil)
	assert.Equal(t, []string{"p1"}, productIDs(FilterProducts(products, sel)))
}

func TestFilterProducts_BucketDimension(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 2, 4.7),
		annotated("p2", "dogs", "alice", BadgeTryMe, 0, 0),
		annotated("p3", "dogs", "alice", BadgeTryMe, 3, 3.2),
	}
	sel := NewFilterSelection(nil, nil, nil, []string{BucketTop, BucketNoRatings})
	assert.Equal(t, []string{"p1", "p2"}, productIDs(FilterProducts(products, sel)))
}

func TestFilterProducts_StaleSelectionMatchesNothing(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p1", "dogs", "alice", BadgeTryMe, 1, 4.0),
	}
	result := FilterProducts(products, NewFilterSelection([]string{"reptiles"}, nil, nil, nil))
	assert.Empty(t, result)
}

func TestFilterProducts_PreservesOrder(t *testing.T) {
	products := []AnnotatedProduct{
		annotated("p3", "dogs", "a", BadgeTryMe, 1, 4.0),
		annotated("p1", "dogs", "a", BadgeTryMe, 1, 4.0),
		annotated("p2", "cats", "a", BadgeTryMe, 1, 4.0),
	}
	result := FilterProducts(products, NewFilterSelection([]string{"dogs"}, nil, nil, nil))
	assert.Equal(t, []string{"p3", "p1"}, productIDs(result))
}

func TestNewFilterSelection_DropsEmptyStrings(t *testing.T) {
	sel := NewFilterSelection([]string{""}, nil, nil, nil)
	assert.True(t, sel.IsEmpty())
}
