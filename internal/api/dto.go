package api

import (
	"math"

	"github.com/spacesedan/reviewsense/internal/models"
)

type AnalyzeRequest struct {
	Text *string `json:"text"`
}

type ScoreDisplay struct {
	Positive string `json:"positive"`
	Neutral  string `json:"neutral"`
	Negative string `json:"negative"`
	Compound string `json:"compound"`
}

type AnalyzeResponse struct {
	Label   models.SentimentLabel `json:"label"`
	Scores  models.SentimentScore `json:"scores"`
	Display ScoreDisplay          `json:"display"`
	Verdict string                `json:"verdict"`
}

type BatchResponse struct {
	BatchID        string                        `json:"batch_id"`
	Total          int                           `json:"total"`
	Counts         map[models.SentimentLabel]int `json:"counts"`
	Percentages    models.SentimentBreakdown     `json:"percentages"`
	Recommendation models.Recommendation         `json:"recommendation"`
	Charts         models.BatchCharts            `json:"charts"`
	Rows           []models.LabeledReview        `json:"rows"`
	DownloadURL    string                        `json:"download_url"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	ArtifactStore string `json:"artifact_store"`
	StoreHealthy  bool   `json:"store_healthy"`
}

var verdicts = map[models.SentimentLabel]string{
	models.SentimentPositive: "This is a positive review!",
	models.SentimentNegative: "This is a negative review!",
	models.SentimentNeutral:  "This is a neutral review!",
}

func newBatchResponse(batchID string, result *models.BatchResult) BatchResponse {
	counts := make(map[models.SentimentLabel]int, len(models.SentimentLabels))
	for _, label := range models.SentimentLabels {
		counts[label] = result.Counts[label]
	}

	rec := result.Recommendation
	rec.Percentage = round(rec.Percentage, 1)

	return BatchResponse{
		BatchID: batchID,
		Total:   result.Total(),
		Counts:  counts,
		Percentages: models.SentimentBreakdown{
			Positive: round(result.Percentages.Positive, 1),
			Neutral:  round(result.Percentages.Neutral, 1),
			Negative: round(result.Percentages.Negative, 1),
		},
		Recommendation: rec,
		Charts:         result.Charts,
		Rows:           result.Rows,
		DownloadURL:    "/api/reviews/batch/" + batchID + "/download",
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
