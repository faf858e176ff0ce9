package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-sentiment/lexicon"
	"review-sentiment/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func englishStopwords(t *testing.T) lexicon.Set {
	t.Helper()
	p, err := lexicon.NewStopwordProvider()
	require.NoError(t, err)
	return p.Get("en")
}

func scored(v float64) *float64 {
	return &v
}

func TestAggregate_EmptyBatch(t *testing.T) {
	a := NewStatisticsAggregator(10, testLogger())

	stats, err := a.Aggregate(nil, englishStopwords(t))
	assert.Nil(t, stats)

	var serr *models.StatisticsError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, models.ErrEmptyBatch)
}

func TestAggregate_AverageAndDistribution(t *testing.T) {
	a := NewStatisticsAggregator(10, testLogger())
	var reviews []models.Review
	for _, stars := range []int{5, 5, 3, 1, 4} {
		reviews = append(reviews, models.Review{Body: "x", StarRating: stars})
	}

	stats, err := a.Aggregate(reviews, englishStopwords(t))
	require.NoError(t, err)

	assert.InDelta(t, 3.6, stats.AverageRating, 1e-9)
	assert.Equal(t, map[int]int{5: 2, 3: 1, 1: 1, 4: 1}, stats.RatingDistribution)
}

func TestAggregate_DistributionKeepsEveryValue(t *testing.T) {
	a := NewStatisticsAggregator(10, testLogger())
	var reviews []models.Review
	for stars := 0; stars <= 7; stars++ {
		reviews = append(reviews, models.Review{Body: "x", StarRating: stars})
	}

	stats, err := a.Aggregate(reviews, englishStopwords(t))
	require.NoError(t, err)
	assert.Len(t, stats.RatingDistribution, 8)
}

func TestAggregate_PerVersion(t *testing.T) {
	a := NewStatisticsAggregator(10, testLogger())
	reviews := []models.Review{
		{Body: "a", StarRating: 4, Version: "1.0", Sentiment: scored(0.5)},
		{Body: "b", StarRating: 2, Version: "1.0", Sentiment: scored(-0.1)},
		{Body: "c", StarRating: 5, Version: "2.0", Sentiment: scored(0.9)},
		{Body: "d", StarRating: 1},
	}

	stats, err := a.Aggregate(reviews, englishStopwords(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"1.0": 3.0, "2.0": 5.0, "": 1.0}, stats.RatingPerVersion)
	assert.InDelta(t, 0.2, stats.SentimentPerVersion["1.0"], 1e-9)
	assert.InDelta(t, 0.9, stats.SentimentPerVersion["2.0"], 1e-9)
	assert.InDelta(t, 0.0, stats.SentimentPerVersion[""], 1e-9)
	assert.InDelta(t, (0.5-0.1+0.9)/4, stats.AverageSentiment, 1e-9)
}

func TestAggregate_MostCommonWordsTruncatesBeforeFiltering(t *testing.T) {
	a := NewStatisticsAggregator(3, testLogger())
	reviews := []models.Review{
		{Title: "The login", Body: "the the login crashes!", StarRating: 1},
		{Body: "Login, again. Crashes? Slow", StarRating: 2},
	}

	stats, err := a.Aggregate(reviews, englishStopwords(t))
	require.NoError(t, err)

	// raw top three is the(3), login(3), crashes(2); "the" is dropped afterwards
	assert.Equal(t, models.WordFrequencies{
		{Word: "login", Count: 3},
		{Word: "crashes", Count: 2},
	}, stats.MostCommonWords)
}

func TestAggregate_MostCommonWordsTieOrder(t *testing.T) {
	a := NewStatisticsAggregator(10, testLogger())
	reviews := []models.Review{
		{Body: "zebra yak xylophone yak", StarRating: 3},
	}

	stats, err := a.Aggregate(reviews, englishStopwords(t))
	require.NoError(t, err)
	assert.Equal(t, models.WordFrequencies{
		{Word: "yak", Count: 2},
		{Word: "zebra", Count: 1},
		{Word: "xylophone", Count: 1},
	}, stats.MostCommonWords)
}

func TestAggregate_DefaultTopN(t *testing.T) {
	a := NewStatisticsAggregator(0, testLogger())
	assert.Equal(t, DefaultTopWords, a.topN)
}

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "dont stop  now", stripPunctuation("don't stop - now!"))
	assert.Equal(t, "café 2024", stripPunctuation("café, 2024."))
}
