package matchers

import (
	"math"
	"strings"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/models"
)

const (
	opportunityThreshold = 2
	strongPolarity       = 0.5
	competitorPolarity   = -0.2
	minUpvotes           = 5
	minComments          = 3
)

// OpportunityClassifier scores a post on weighted signals and marks it as a sales
// opportunity once the score reaches opportunityThreshold.
type OpportunityClassifier struct {
	signals     []string
	competitors []string
}

// NewOpportunityClassifier keeps lowercased copies of both lists.
func NewOpportunityClassifier(signals, competitors []string) *OpportunityClassifier {
	return &OpportunityClassifier{
		signals:     lowerAll(signals),
		competitors: lowerAll(competitors),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Score expects post.Score to already hold the compound polarity.
func (c *OpportunityClassifier) Score(post models.Post) int {
	title := strings.ToLower(post.Title)
	score := 0

	if math.Abs(post.Score) > strongPolarity {
		score++
	}
	if post.Upvotes > minUpvotes || post.Comments > minComments {
		score++
	}
	if c.containsAny(title, c.signals, MatchesPartially) {
		score++
	}
	if post.Score < competitorPolarity && c.containsAny(title, c.competitors, MatchesWholeWord) {
		score += 2
	}

	return score
}

// Classify never downgrades a post that is already an opportunity.
func (c *OpportunityClassifier) Classify(post models.Post) enums.PostStatus {
	if post.Status == enums.PostStatusOpportunity {
		return enums.PostStatusOpportunity
	}
	if c.Score(post) >= opportunityThreshold {
		return enums.PostStatusOpportunity
	}
	return enums.PostStatusNeutral
}

func (c *OpportunityClassifier) containsAny(text string, terms []string, match func(text, term string) bool) bool {
	for _, term := range terms {
		if match(text, term) {
			return true
		}
	}
	return false
}
