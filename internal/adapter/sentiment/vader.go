// Package sentiment provides a VADER-based scorer for article text that
// arrives without provider-supplied sentiment.
package sentiment

import (
	"github.com/jonreiter/govader"

	"msme-intel/internal/domain"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

// VaderScorer wraps a govader analyzer. The analyzer is not safe for
// concurrent use, so each scorer owns its own instance and Score must not
// be called from multiple goroutines; the aggregation layer scores on a
// single goroutine after fan-in.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity and a coarse label.
func (s *VaderScorer) Score(text string) (float64, string) {
	if text == "" {
		return 0, "neutral"
	}

	score := s.analyzer.PolarityScores(text).Compound

	label := "neutral"
	if score >= positiveThreshold {
		label = "positive"
	} else if score <= negativeThreshold {
		label = "negative"
	}
	return score, label
}

var _ domain.SentimentScorer = (*VaderScorer)(nil)
