package processing

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spacesedan/reviewsense/internal/models"
	"github.com/spacesedan/reviewsense/internal/recommendation"
)

// ErrNoReviews is returned for an upload with a header but no rows.
var ErrNoReviews = recommendation.ErrNoReviews

type Labeler interface {
	Label(text string) models.SentimentLabel
}

type Processor struct {
	labeler Labeler
}

func NewProcessor(labeler Labeler) *Processor {
	return &Processor{labeler: labeler}
}

// Process labels every review of the table and aggregates the batch.
func (p *Processor) Process(table *models.ReviewTable) (*models.BatchResult, error) {
	start := time.Now()
	if table == nil || len(table.Records) == 0 {
		return nil, ErrNoReviews
	}

	result := &models.BatchResult{
		Table:  table,
		Rows:   make([]models.LabeledReview, 0, len(table.Records)),
		Counts: make(map[models.SentimentLabel]int, len(models.SentimentLabels)),
	}

	for _, review := range table.Reviews() {
		label := p.labeler.Label(review)
		result.Rows = append(result.Rows, models.LabeledReview{Review: review, Label: label})
		result.Counts[label]++
	}

	total := result.Total()
	breakdown, err := Breakdown(result.Counts, total)
	if err != nil {
		return nil, err
	}
	result.Percentages = breakdown

	rec, err := recommendation.Recommend(result.Counts[models.SentimentPositive], total)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation: %w", err)
	}
	result.Recommendation = rec
	result.Charts = BuildCharts(result.Counts)

	slog.Info("[BatchProcessor] Processed review batch",
		slog.Int("reviews", total),
		slog.Int("positive", result.Counts[models.SentimentPositive]),
		slog.Int("neutral", result.Counts[models.SentimentNeutral]),
		slog.Int("negative", result.Counts[models.SentimentNegative]),
		slog.String("tier", rec.Tier),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

func Breakdown(counts map[models.SentimentLabel]int, total int) (models.SentimentBreakdown, error) {
	var b models.SentimentBreakdown
	var err error

	if b.Positive, err = recommendation.Percentage(counts[models.SentimentPositive], total); err != nil {
		return b, err
	}
	if b.Neutral, err = recommendation.Percentage(counts[models.SentimentNeutral], total); err != nil {
		return b, err
	}
	if b.Negative, err = recommendation.Percentage(counts[models.SentimentNegative], total); err != nil {
		return b, err
	}
	return b, nil
}

// BuildCharts orders the labels by descending count, ties in display order.
// Labels that never occur are left out.
func BuildCharts(counts map[models.SentimentLabel]int) models.BatchCharts {
	labels := make([]models.SentimentLabel, 0, len(models.SentimentLabels))
	for _, l := range models.SentimentLabels {
		if counts[l] > 0 {
			labels = append(labels, l)
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return counts[labels[i]] > counts[labels[j]]
	})

	names := make([]string, 0, len(labels))
	values := make([]int, 0, len(labels))
	for _, l := range labels {
		names = append(names, string(l))
		values = append(values, counts[l])
	}

	return models.BatchCharts{
		Pie: models.ChartSeries{Title: "Sentiment Distribution", Labels: names, Values: values},
		Bar: models.ChartSeries{
			Title:  "Sentiment Counts",
			Labels: append([]string(nil), names...),
			Values: append([]int(nil), values...),
		},
	}
}
