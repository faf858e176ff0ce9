package services

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"review-sentiment/models"
)

func TestPrintReviewReport(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	q := appStoreQuery(1, true)
	report := &models.ReviewReport{
		Reviews: []models.Review{
			{ID: "1", Author: "Jan", Title: "Great", Body: "Love it", StarRating: 5, Version: "1.0", Sentiment: scored(0.8)},
			{ID: "2", Body: "Crashes constantly since the last update of the application", StarRating: 1, Sentiment: scored(-0.6)},
		},
		Statistics: &models.Statistics{
			AverageRating:       3,
			AverageSentiment:    0.1,
			RatingDistribution:  map[int]int{5: 1, 1: 1},
			RatingPerVersion:    map[string]float64{"1.0": 5, "": 1},
			SentimentPerVersion: map[string]float64{"1.0": 0.8, "": -0.6},
			MostCommonWords:     models.WordFrequencies{{Word: "crashes", Count: 1}},
		},
	}

	var buf bytes.Buffer
	PrintReviewReport(&buf, q, report)
	out := buf.String()

	assert.Contains(t, out, "APP REVIEW SENTIMENT REPORT")
	assert.Contains(t, out, "RATING DISTRIBUTION")
	assert.Contains(t, out, "PER VERSION")
	assert.Contains(t, out, "(unknown)")
	assert.Contains(t, out, "MOST COMMON WORDS")
	assert.Contains(t, out, "crashes")
	assert.Contains(t, out, models.UnknownAuthor)
	assert.Contains(t, out, "3.00")
	assert.Contains(t, out, "...")
}

func TestPrintReviewReport_WithoutStatistics(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	PrintReviewReport(&buf, appStoreQuery(1, false), &models.ReviewReport{})

	assert.Contains(t, buf.String(), "not available")
	assert.NotContains(t, buf.String(), "REVIEWS\n")
}

func TestReportHelpers(t *testing.T) {
	assert.Equal(t, 20, barLength(1, 2))
	assert.Equal(t, 0, barLength(3, 0))
	assert.Equal(t, "  ab  ", center("ab", 6))
	assert.Equal(t, "abcdefg", truncate("abcdefg", 7))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
