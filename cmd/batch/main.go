package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spacesedan/reviewsense/config"
	"github.com/spacesedan/reviewsense/internal/logging"
	"github.com/spacesedan/reviewsense/internal/models"
	"github.com/spacesedan/reviewsense/internal/processing"
	"github.com/spacesedan/reviewsense/internal/sentiment"
)

func main() {
	in := flag.String("in", "", "CSV file with a Review column")
	out := flag.String("out", "sentiment_analysis_results.csv", "where to write the labeled CSV")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*in, *out, cfg.StripMarkup); err != nil {
		slog.Error("[Batch] Failed to analyze reviews",
			slog.String("input", *in),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(inPath, outPath string, stripMarkup bool) error {
	src, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer src.Close()

	table, err := processing.ReadReviews(src)
	if err != nil {
		return err
	}

	analyzer := sentiment.NewAnalyzer(sentiment.NewVADERScorer(), sentiment.Options{StripMarkup: stripMarkup})
	result, err := processing.NewProcessor(analyzer).Process(table)
	if err != nil {
		return err
	}

	dst, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := processing.WriteResults(dst, result); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	printSummary(result)
	slog.Info("[Batch] Wrote labeled reviews",
		slog.String("output", outPath),
		slog.Int("rows", result.Total()))
	return nil
}

func printSummary(result *models.BatchResult) {
	rec := result.Recommendation
	fmt.Printf("Overall Recommendation: %s (%d/5)\n", rec.Tier, rec.Stars)
	fmt.Println(rec.Explanation)
	fmt.Printf("Positive Reviews: %.1f%%\n", result.Percentages.Positive)
	fmt.Printf("Neutral Reviews:  %.1f%%\n", result.Percentages.Neutral)
	fmt.Printf("Negative Reviews: %.1f%%\n", result.Percentages.Negative)
}
