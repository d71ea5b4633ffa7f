package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spacesedan/reviewsense/internal/artifacts"
	"github.com/spacesedan/reviewsense/internal/processing"
)

const (
	batchIDKey       = "batchId"
	downloadFileName = "sentiment_analysis_results.csv"
)

func (s *Server) handleHealth(c *gin.Context) {
	healthy := s.storeHealthy.Load()
	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:        status,
		ArtifactStore: s.store.Name(),
		StoreHealthy:  healthy,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must be JSON with a 'text' field")
		return
	}

	result := s.analyzer.Analyze(*req.Text)
	c.JSON(http.StatusOK, AnalyzeResponse{
		Label:  result.Label,
		Scores: result.Scores,
		Display: ScoreDisplay{
			Positive: fmt.Sprintf("%.2f", result.Scores.Positive),
			Neutral:  fmt.Sprintf("%.2f", result.Scores.Neutral),
			Negative: fmt.Sprintf("%.2f", result.Scores.Negative),
			Compound: fmt.Sprintf("%.2f", result.Scores.Compound),
		},
		Verdict: verdicts[result.Label],
	})
}

func (s *Server) handleBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("Upload exceeds %d bytes", s.maxUploadBytes))
			return
		}
		respondError(c, http.StatusBadRequest, "missing_file", "Upload a CSV file in the 'file' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("[API] Failed to open upload",
			slog.String("filename", fileHeader.Filename),
			slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "missing_file", "Uploaded file could not be read")
		return
	}
	defer file.Close()

	table, err := processing.ReadReviews(file)
	if err != nil {
		s.respondBatchError(c, err)
		return
	}

	result, err := s.processor.Process(table)
	if err != nil {
		s.respondBatchError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := processing.WriteResults(&buf, result); err != nil {
		slog.Error("[API] Failed to render results CSV",
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "internal", "Failed to build results file")
		return
	}

	batchID := uuid.NewString()
	c.Set(batchIDKey, batchID)
	if err := s.store.Put(c.Request.Context(), batchID, buf.Bytes()); err != nil {
		slog.Error("[API] Failed to store results",
			slog.String("batch_id", batchID),
			slog.String("store", s.store.Name()),
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "store_unavailable", "Failed to store results for download")
		return
	}

	c.JSON(http.StatusOK, newBatchResponse(batchID, result))
}

func (s *Server) respondBatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processing.ErrMissingReviewColumn):
		respondError(c, http.StatusBadRequest, "missing_review_column", processing.ErrMissingReviewColumn.Error())
	case errors.Is(err, processing.ErrMalformedCSV):
		respondError(c, http.StatusBadRequest, "malformed_csv", err.Error())
	case errors.Is(err, processing.ErrNoReviews):
		respondError(c, http.StatusUnprocessableEntity, "no_reviews", "CSV file contains no reviews")
	default:
		slog.Error("[API] Batch processing failed",
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "internal", "Failed to process reviews")
	}
}

func (s *Server) handleDownload(c *gin.Context) {
	batchID := c.Param("id")
	if _, err := uuid.Parse(batchID); err != nil {
		respondError(c, http.StatusNotFound, "not_found", "Results not found or expired")
		return
	}
	c.Set(batchIDKey, batchID)

	data, err := s.store.Get(c.Request.Context(), batchID)
	if errors.Is(err, artifacts.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "Results not found or expired")
		return
	}
	if err != nil {
		slog.Error("[API] Failed to fetch results",
			slog.String("batch_id", batchID),
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "store_unavailable", "Failed to fetch results")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
