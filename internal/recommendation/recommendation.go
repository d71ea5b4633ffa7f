package recommendation

import (
	"errors"
	"fmt"

	"github.com/spacesedan/reviewsense/internal/models"
)

var (
	ErrNoReviews     = errors.New("at least one review is required for a recommendation")
	ErrInvalidCounts = errors.New("invalid review counts")
)

const (
	TierHighlyRecommended = "Highly Recommended"
	TierRecommended       = "Recommended"
	TierNeutral           = "Neutral"
	TierNotRecommended    = "Not Recommended"
)

type tier struct {
	minPercentage float64
	name          string
	stars         int
	explanation   string
}

// Checked top down, first match wins.
var tiers = []tier{
	{70, TierHighlyRecommended, 5, "The product is rated very well, worth buying!"},
	{50, TierRecommended, 4, "The product is rated fairly well, consider buying it."},
	{30, TierNeutral, 3, "The product has average ratings, think it over carefully."},
}

var fallback = tier{0, TierNotRecommended, 2, "The product has many negative reviews, not worth buying."}

// Recommend picks a tier from the share of positive reviews.
func Recommend(positiveCount, totalCount int) (models.Recommendation, error) {
	pct, err := Percentage(positiveCount, totalCount)
	if err != nil {
		return models.Recommendation{}, err
	}

	chosen := fallback
	for _, t := range tiers {
		if pct >= t.minPercentage {
			chosen = t
			break
		}
	}

	return models.Recommendation{
		Tier:        chosen.name,
		Stars:       chosen.stars,
		Explanation: chosen.explanation,
		Percentage:  pct,
	}, nil
}

// Percentage returns count/total*100 and refuses an empty total.
func Percentage(count, totalCount int) (float64, error) {
	if totalCount == 0 {
		return 0, ErrNoReviews
	}
	if count < 0 || totalCount < 0 || count > totalCount {
		return 0, fmt.Errorf("%w: %d of %d", ErrInvalidCounts, count, totalCount)
	}
	return float64(count) * 100 / float64(totalCount), nil
}
