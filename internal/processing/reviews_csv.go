package processing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/reviewsense/internal/models"
)

const (
	ReviewColumn    = "Review"
	SentimentColumn = "Sentiment"
)

var (
	ErrMissingReviewColumn = errors.New("CSV file must contain a 'Review' column")
	ErrMalformedCSV        = errors.New("malformed CSV file")
)

const utf8BOM = "\ufeff"

// ReadReviews parses an uploaded CSV. Nothing is returned unless the header
// carries a Review column and every row parses. Stray quotes are read as
// literal text and short rows are padded with empty cells, but a row must
// reach the Review column and may not run past the header.
func ReadReviews(r io.Reader) (*models.ReviewTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingReviewColumn
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	reviewIdx := columnIndex(header, ReviewColumn)
	if reviewIdx < 0 {
		return nil, ErrMissingReviewColumn
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		line, _ := reader.FieldPos(0)
		switch {
		case len(record) > len(header):
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedCSV, line, len(record), len(header))
		case len(record) <= reviewIdx:
			return nil, fmt.Errorf("%w: line %d has no %s value", ErrMalformedCSV, line, ReviewColumn)
		case len(record) < len(header):
			record = append(record, make([]string, len(header)-len(record))...)
		}
		records = append(records, record)
	}

	return &models.ReviewTable{
		Header:      header,
		Records:     records,
		ReviewIndex: reviewIdx,
	}, nil
}

// WriteResults writes the original columns plus the Sentiment label. An
// existing Sentiment column is overwritten in place.
func WriteResults(w io.Writer, result *models.BatchResult) error {
	table := result.Table
	if table == nil {
		return errors.New("batch result has no source table")
	}
	if len(table.Records) != len(result.Rows) {
		return fmt.Errorf("row count mismatch: %d records, %d labels", len(table.Records), len(result.Rows))
	}

	header := append([]string(nil), table.Header...)
	sentimentIdx := columnIndex(header, SentimentColumn)
	if sentimentIdx < 0 {
		sentimentIdx = len(header)
		header = append(header, SentimentColumn)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range table.Records {
		row := make([]string, len(header))
		copy(row, record)
		row[sentimentIdx] = string(result.Rows[i].Label)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
