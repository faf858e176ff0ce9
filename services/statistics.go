package services

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"review-sentiment/lexicon"
	"review-sentiment/models"
)

// DefaultTopWords is the size of the frequent-word summary
const DefaultTopWords = 10

// StatisticsAggregator computes corpus-level analytics from a scored review batch
type StatisticsAggregator struct {
	topN int
	log  *slog.Logger
}

// NewStatisticsAggregator creates a new StatisticsAggregator
func NewStatisticsAggregator(topN int, logger *slog.Logger) *StatisticsAggregator {
	if topN < 1 {
		topN = DefaultTopWords
	}
	return &StatisticsAggregator{topN: topN, log: logger}
}

type versionTotals struct {
	ratings    float64
	sentiments float64
	count      int
}

// Aggregate computes the statistics of reviews. Unscored reviews count as neutral.
// An empty batch is a *models.StatisticsError wrapping models.ErrEmptyBatch.
func (a *StatisticsAggregator) Aggregate(reviews []models.Review, stopwords lexicon.Set) (*models.Statistics, error) {
	if len(reviews) == 0 {
		return nil, &models.StatisticsError{Err: models.ErrEmptyBatch}
	}

	stats := &models.Statistics{
		RatingDistribution:  make(map[int]int),
		RatingPerVersion:    make(map[string]float64),
		SentimentPerVersion: make(map[string]float64),
	}

	var totalRating, totalSentiment float64
	versions := make(map[string]*versionTotals)
	for _, r := range reviews {
		rating := float64(r.StarRating)
		sentiment := r.SentimentScore()

		totalRating += rating
		totalSentiment += sentiment
		stats.RatingDistribution[r.StarRating]++

		v, ok := versions[r.Version]
		if !ok {
			v = &versionTotals{}
			versions[r.Version] = v
		}
		v.ratings += rating
		v.sentiments += sentiment
		v.count++
	}

	n := float64(len(reviews))
	stats.AverageRating = totalRating / n
	stats.AverageSentiment = totalSentiment / n
	for version, v := range versions {
		stats.RatingPerVersion[version] = v.ratings / float64(v.count)
		stats.SentimentPerVersion[version] = v.sentiments / float64(v.count)
	}

	stats.MostCommonWords = a.mostCommonWords(reviews, stopwords)

	a.log.Debug("statistics computed", "reviews", len(reviews), "versions", len(versions), "words", len(stats.MostCommonWords))
	return stats, nil
}

// mostCommonWords takes the top N by raw frequency first and only then drops stopwords,
// so the summary may hold fewer than N entries
func (a *StatisticsAggregator) mostCommonWords(reviews []models.Review, stopwords lexicon.Set) models.WordFrequencies {
	lower := cases.Lower(stopwords.Tag())

	counts := make(map[string]int)
	var order []string
	for _, r := range reviews {
		text := lower.String(stripPunctuation(r.Title + " " + r.Body))
		for _, w := range strings.Fields(text) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	// stable sort keeps first-occurrence order among equal counts
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > a.topN {
		order = order[:a.topN]
	}

	words := make(models.WordFrequencies, 0, len(order))
	for _, w := range order {
		if stopwords.Has(w) {
			continue
		}
		words = append(words, models.WordCount{Word: w, Count: counts[w]})
	}
	return words
}

// stripPunctuation drops every rune that is neither a word character nor whitespace
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' || unicode.IsMark(r) {
			return r
		}
		return -1
	}, s)
}
