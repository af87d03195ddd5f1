// Package sentiment scores post text with the VADER lexicon.
package sentiment

import (
	"math"

	"github.com/jonreiter/govader"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/models"
)

// Compound scores above PositiveThreshold are positive, below -PositiveThreshold negative.
const PositiveThreshold = 0.05

type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound polarity of text, in [-1, 1].
func (s *Scorer) Score(text string) float64 {
	if text == "" {
		return 0
	}
	return s.analyzer.PolarityScores(text).Compound
}

func (s *Scorer) Analyze(text string) (float64, enums.Sentiment) {
	polarity := s.Score(text)
	return polarity, Label(polarity)
}

func Label(polarity float64) enums.Sentiment {
	switch {
	case polarity > PositiveThreshold:
		return enums.SentimentPositive
	case polarity < -PositiveThreshold:
		return enums.SentimentNegative
	default:
		return enums.SentimentNeutral
	}
}

// AverageScore is the mean post score rounded to two decimals, 0 for no posts.
func AverageScore(posts []models.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range posts {
		sum += p.Score
	}
	return math.Round(sum/float64(len(posts))*100) / 100
}
