// Package sentiment scores free-text comment bodies on a 1-10 scale using
// VADER (Valence Aware Dictionary and sEntiment Reasoner) lexicon analysis.
package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/pawmart/PetShopGo/internal/domain"
)

var (
	vaderAnalyzer *govader.SentimentIntensityAnalyzer
	vaderOnce     sync.Once
)

// The analyzer loads its lexicon on construction, so build it once and share
// it. PolarityScores is safe for concurrent readers.
func getVaderAnalyzer() *govader.SentimentIntensityAnalyzer {
	vaderOnce.Do(func() {
		vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})
	return vaderAnalyzer
}

// compoundToScore maps a VADER compound score (-1..1) onto the 1-10 scale.
// Compound -1 (most negative) -> 1, 0 (neutral) -> 5.5, 1 (most positive) -> 10.
func compoundToScore(compound float64) float64 {
	return domain.ClampSentiment(domain.NeutralSentimentScore + 4.5*compound)
}

// Scorer derives a sentiment score for a comment body.
type Scorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the shared VADER analyzer. The zero value is
// ready to use.
type VaderScorer struct{}

// NewScorer returns the default lexicon-backed scorer.
func NewScorer() Scorer {
	return VaderScorer{}
}

// Score returns a deterministic sentiment score in [1,10] for the given
// text. Empty or whitespace-only input yields the neutral midpoint. Scoring
// never fails: if the analyzer panics on unexpected input the neutral score
// is returned, since sentiment is an enhancement rather than a
// correctness-critical value.
func (VaderScorer) Score(text string) (score float64) {
	defer func() {
		if recover() != nil {
			score = domain.NeutralSentimentScore
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NeutralSentimentScore
	}

	scores := getVaderAnalyzer().PolarityScores(text)
	return compoundToScore(scores.Compound)
}
