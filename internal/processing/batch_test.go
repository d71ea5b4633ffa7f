package processing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/reviewsense/internal/models"
	"github.com/spacesedan/reviewsense/internal/recommendation"
)

// keywordLabeler labels by keyword so batch tests do not depend on lexicon values.
type keywordLabeler struct{}

func (keywordLabeler) Label(text string) models.SentimentLabel {
	switch {
	case strings.Contains(text, "good"):
		return models.SentimentPositive
	case strings.Contains(text, "bad"):
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func mustRead(t *testing.T, input string) *models.ReviewTable {
	t.Helper()
	table, err := ReadReviews(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	return table
}

func TestReadReviewsMissingColumn(t *testing.T) {
	inputs := map[string]string{
		"other columns": "Text,Rating\nnice,5\n",
		"lowercase":     "review\nnice\n",
		"empty file":    "",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			table, err := ReadReviews(strings.NewReader(input))
			if !errors.Is(err, ErrMissingReviewColumn) {
				t.Fatalf("expected ErrMissingReviewColumn got %v", err)
			}
			if table != nil {
				t.Fatalf("expected no partial table")
			}
		})
	}
}

func TestReadReviewsMalformed(t *testing.T) {
	inputs := map[string]string{
		"row longer than header": "Review,Rating\ngood,5\nbad,1,extra\n",
		"row without review":     "Rating,Review\n5,good\n1\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			table, err := ReadReviews(strings.NewReader(input))
			if !errors.Is(err, ErrMalformedCSV) {
				t.Fatalf("expected ErrMalformedCSV got %v", err)
			}
			if table != nil {
				t.Fatalf("expected no partial table")
			}
		})
	}
}

func TestReadReviewsBareQuote(t *testing.T) {
	table := mustRead(t, "Review,Rating\nGreat 5\" screen love it,5\nok,3\n")

	reviews := table.Reviews()
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews got %d", len(reviews))
	}
	if reviews[0] != `Great 5" screen love it` {
		t.Fatalf("unexpected review %q", reviews[0])
	}
}

func TestReadReviewsPadsShortRows(t *testing.T) {
	table := mustRead(t, "Review,Rating,Date\ngood\nbad,1\n")

	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records got %d", len(table.Records))
	}
	for i, record := range table.Records {
		if len(record) != 3 {
			t.Fatalf("record %d: expected 3 fields got %d", i, len(record))
		}
	}
	if table.Reviews()[0] != "good" || table.Records[1][1] != "1" || table.Records[1][2] != "" {
		t.Fatalf("unexpected records %v", table.Records)
	}

	result, err := NewProcessor(keywordLabeler{}).Process(table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteResults(&buf, result); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if got := buf.String(); got != "Review,Rating,Date,Sentiment\ngood,,,Positive\nbad,1,,Negative\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestReadReviewsStripsBOM(t *testing.T) {
	table := mustRead(t, "\ufeffReview,Rating\ngood,5\n")
	if table.ReviewIndex != 0 {
		t.Fatalf("expected Review at column 0, got %d", table.ReviewIndex)
	}
}

func TestProcessCountsEveryRow(t *testing.T) {
	input := "Id,Review\n1,good stuff\n2,bad stuff\n3,okay stuff\n4,really good\n5,\"good, \"\"honestly\"\"\"\n"
	table := mustRead(t, input)

	result, err := NewProcessor(keywordLabeler{}).Process(table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Total() != 5 || len(result.Rows) != 5 {
		t.Fatalf("expected 5 labeled rows got %d", len(result.Rows))
	}
	sum := 0
	for _, c := range result.Counts {
		sum += c
	}
	if sum != 5 {
		t.Fatalf("label counts sum to %d, expected 5", sum)
	}
	if result.Counts[models.SentimentPositive] != 3 {
		t.Fatalf("expected 3 positive got %d", result.Counts[models.SentimentPositive])
	}
	if result.Rows[1].Review != "bad stuff" || result.Rows[1].Label != models.SentimentNegative {
		t.Fatalf("unexpected second row: %+v", result.Rows[1])
	}
	if result.Percentages.Positive != 60 || result.Percentages.Neutral != 20 || result.Percentages.Negative != 20 {
		t.Fatalf("unexpected percentages: %+v", result.Percentages)
	}
	if result.Recommendation.Tier != recommendation.TierRecommended {
		t.Fatalf("expected Recommended got %s", result.Recommendation.Tier)
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	table := mustRead(t, "Review\n")
	_, err := NewProcessor(keywordLabeler{}).Process(table)
	if !errors.Is(err, ErrNoReviews) {
		t.Fatalf("expected ErrNoReviews got %v", err)
	}
}

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(map[models.SentimentLabel]int{
		models.SentimentPositive: 1,
		models.SentimentNegative: 4,
	})

	want := []string{"Negative", "Positive"}
	if strings.Join(charts.Pie.Labels, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected pie labels %v", charts.Pie.Labels)
	}
	if charts.Pie.Values[0] != 4 || charts.Pie.Values[1] != 1 {
		t.Fatalf("unexpected pie values %v", charts.Pie.Values)
	}
	if len(charts.Bar.Labels) != 2 || charts.Bar.Title != "Sentiment Counts" {
		t.Fatalf("unexpected bar chart %+v", charts.Bar)
	}
}

func TestWriteResultsAppendsSentiment(t *testing.T) {
	table := mustRead(t, "Id,Review\n1,good\n2,bad\n")
	result, err := NewProcessor(keywordLabeler{}).Process(table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteResults(&buf, result); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Id,Review,Sentiment" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][2] != "Positive" || rows[2][2] != "Negative" {
		t.Fatalf("unexpected labels %v %v", rows[1], rows[2])
	}
}

func TestWriteResultsOverwritesSentiment(t *testing.T) {
	table := mustRead(t, "Review,Sentiment\ngood,stale\n")
	result, err := NewProcessor(keywordLabeler{}).Process(table)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteResults(&buf, result); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if got := buf.String(); got != "Review,Sentiment\ngood,Positive\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
