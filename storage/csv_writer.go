package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"review-sentiment/models"
)

var csvHeader = []string{
	"provider", "id", "author", "title", "review",
	"stars", "version", "date", "reply", "sentiment",
}

// CSVWriter exports scored reviews to a CSV file
type CSVWriter struct {
	filePath string
	log      *slog.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, log: logger}
}

// Export writes one row per review, overwriting the file
func (w *CSVWriter) Export(reviews []models.Review) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range reviews {
		sentiment := ""
		if r.Sentiment != nil {
			sentiment = strconv.FormatFloat(*r.Sentiment, 'f', 4, 64)
		}
		row := []string{
			string(r.Provider),
			r.ID,
			r.Author,
			r.Title,
			r.Body,
			strconv.Itoa(r.StarRating),
			r.Version,
			r.Date,
			r.Reply,
			sentiment,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for review %s: %w", r.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	w.log.Info("Reviews written to CSV", "path", w.filePath, "rows", len(reviews))
	return nil
}
