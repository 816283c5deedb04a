package domain

// Rating bucket keys accepted as filter values. Each bucket is a predicate
// over a product's RatingStats.
const (
	BucketNoRatings = "no ratings"
	BucketTop       = "4.5-5.0"
	BucketHigh      = "4.0-4.49"
	BucketMid       = "3.0-3.99"
	BucketLow       = "0-2.99"
)

// ValidRatingBuckets returns the set of accepted bucket keys.
func ValidRatingBuckets() []string {
	return []string{BucketNoRatings, BucketTop, BucketHigh, BucketMid, BucketLow}
}

// IsValidRatingBucket checks whether b is an accepted bucket key.
func IsValidRatingBucket(b string) bool {
	for _, bucket := range ValidRatingBuckets() {
		if b == bucket {
			return true
		}
	}
	return false
}

// MatchesBucket reports whether a product's stats fall into the given
// rating bucket. Unknown bucket keys match nothing.
func MatchesBucket(stats RatingStats, bucket string) bool {
	if bucket == BucketNoRatings {
		return stats.RatingCount == 0
	}
	if stats.RatingCount == 0 || stats.AverageRating == nil {
		return false
	}
	avg := *stats.AverageRating
	switch bucket {
	case BucketTop:
		return avg >= 4.5
	case BucketHigh:
		return avg >= 4.0 && avg < 4.5
	case BucketMid:
		return avg >= 3.0 && avg < 4.0
	case BucketLow:
		return avg < 3.0
	default:
		return false
	}
}

// AnnotatedProduct pairs a product with the aggregates and derived labels
// the listing view renders and filters on.
type AnnotatedProduct struct {
	Product   Product       `json:"product"`
	Stats     RatingStats   `json:"stats"`
	Badge     string        `json:"badge"`
	Display   DisplayRating `json:"display_rating"`
	OwnerName string        `json:"owner_name"`
}

// FilterSelection is the full set of user-selected filter values. An empty
// set for a dimension means "no filter on that dimension".
type FilterSelection struct {
	Categories map[string]struct{}
	Owners     map[string]struct{}
	Badges     map[string]struct{}
	Buckets    map[string]struct{}
}

// NewFilterSelection builds a selection from raw value lists, dropping
// empty strings.
func NewFilterSelection(categories, owners, badges, buckets []string) FilterSelection {
	return FilterSelection{
		Categories: toSet(categories),
		Owners:     toSet(owners),
		Badges:     toSet(badges),
		Buckets:    toSet(buckets),
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// IsEmpty reports whether no dimension has an active filter.
func (s FilterSelection) IsEmpty() bool {
	return len(s.Categories) == 0 && len(s.Owners) == 0 && len(s.Badges) == 0 && len(s.Buckets) == 0
}

// Matches evaluates the selection against one annotated product: every
// non-empty dimension must match (AND across dimensions), and within a
// dimension any selected value suffices (OR within a dimension).
func (s FilterSelection) Matches(p AnnotatedProduct) bool {
	if len(s.Categories) > 0 {
		if _, ok := s.Categories[p.Product.Category]; !ok {
			return false
		}
	}
	if len(s.Owners) > 0 {
		if _, ok := s.Owners[p.OwnerName]; !ok {
			return false
		}
	}
	if len(s.Badges) > 0 {
		if _, ok := s.Badges[p.Badge]; !ok {
			return false
		}
	}
	if len(s.Buckets) > 0 {
		matched := false
		for bucket := range s.Buckets {
			if MatchesBucket(p.Stats, bucket) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// FilterProducts returns the subsequence of products passing the selection,
// preserving input order. An empty selection returns the input unchanged.
func FilterProducts(products []AnnotatedProduct, selection FilterSelection) []AnnotatedProduct {
	if selection.IsEmpty() {
		return products
	}
	filtered := make([]AnnotatedProduct, 0, len(products))
	for _, p := range products {
		if selection.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
