package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"review-sentiment/lexicon"
	"review-sentiment/metrics"
	"review-sentiment/models"
	"review-sentiment/scraper"
	"review-sentiment/sentiment"
	"review-sentiment/storage"
)

// PageSource hands out the page fetch capability of one storefront
type PageSource interface {
	PageFunc(country, appID string) scraper.PageFunc
}

// ReviewServiceConfig wires the collaborators of a ReviewService.
// Cache and Metrics are optional.
type ReviewServiceConfig struct {
	Sources    map[models.Provider]PageSource
	Cache      *storage.PageCacheLayer
	Normalizer *Normalizer
	Scorer     *sentiment.Scorer
	Statistics *StatisticsAggregator
	Stopwords  *lexicon.StopwordProvider
	Metrics    *metrics.PipelineMetrics
	Logger     *slog.Logger
}

// ReviewService runs the fetch, normalize, score and aggregate pipeline
type ReviewService struct {
	sources    map[models.Provider]PageSource
	cache      *storage.PageCacheLayer
	normalizer *Normalizer
	scorer     *sentiment.Scorer
	stats      *StatisticsAggregator
	stopwords  *lexicon.StopwordProvider
	metrics    *metrics.PipelineMetrics
	log        *slog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(cfg ReviewServiceConfig) *ReviewService {
	return &ReviewService{
		sources:    cfg.Sources,
		cache:      cfg.Cache,
		normalizer: cfg.Normalizer,
		scorer:     cfg.Scorer,
		stats:      cfg.Statistics,
		stopwords:  cfg.Stopwords,
		metrics:    cfg.Metrics,
		log:        cfg.Logger.With("component", "review_service"),
	}
}

// Reviews fetches, normalizes and scores the reviews of q. Fetch and normalization
// failures are fatal; a statistics failure only drops the statistics.
func (s *ReviewService) Reviews(ctx context.Context, q models.ReviewQuery) (*models.ReviewReport, error) {
	src, ok := s.sources[q.Provider]
	if !ok {
		return nil, &models.ValidationError{
			Kind:    models.UnknownProvider,
			Param:   "provider",
			Message: fmt.Sprintf("provider %q is not configured", q.Provider),
		}
	}

	fetch := scraper.Instrument(q.Provider, s.metrics, src.PageFunc(q.Country, q.AppID))
	if s.cache != nil {
		fetch = s.cache.CachedPages(q.Provider, cacheKey(q), fetch)
	}

	raws, err := scraper.FetchAll(ctx, q.Provider, q.Pages, fetch)
	if err != nil {
		s.log.ErrorContext(ctx, "fetch failed", "provider", q.Provider, "app_id", q.AppID, "error", err)
		return nil, err
	}

	reviews, err := s.normalizer.NormalizeAll(raws, q.Provider)
	if err != nil {
		s.log.ErrorContext(ctx, "normalization failed", "provider", q.Provider, "app_id", q.AppID, "error", err)
		return nil, err
	}

	for i := range reviews {
		score := s.scorer.Compound(reviews[i].Document())
		reviews[i].Sentiment = &score
	}
	s.metrics.AddScored(string(q.Provider), len(reviews))

	report := &models.ReviewReport{Reviews: reviews}
	if q.WithStatistics {
		stats, err := s.stats.Aggregate(reviews, s.stopwords.Get(q.Country))
		if err != nil {
			s.log.WarnContext(ctx, "statistics omitted", "provider", q.Provider, "app_id", q.AppID, "error", err)
			s.metrics.StatisticsSkip(string(q.Provider))
		} else {
			report.Statistics = stats
		}
	}

	s.log.InfoContext(ctx, "reviews scored",
		"provider", q.Provider, "country", q.Country, "app_id", q.AppID,
		"pages", q.Pages, "reviews", len(reviews), "statistics", report.Statistics != nil)
	return report, nil
}

// ScoreDocuments scores free-standing documents in order
func (s *ReviewService) ScoreDocuments(documents []string) ([]models.DocumentSentiment, error) {
	if len(documents) == 0 {
		return nil, &models.ValidationError{
			Kind:    models.NoDocuments,
			Param:   "documents",
			Message: "documents must be a non-empty list",
		}
	}

	results := make([]models.DocumentSentiment, len(documents))
	for i, doc := range documents {
		results[i] = s.scorer.Score(doc)
	}
	return results, nil
}

func cacheKey(q models.ReviewQuery) string {
	return strings.Join([]string{string(q.Provider), q.Country, q.AppID}, ":")
}
