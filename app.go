package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"review-sentiment/config"
	"review-sentiment/lexicon"
	"review-sentiment/metrics"
	"review-sentiment/models"
	"review-sentiment/scraper/appstore"
	"review-sentiment/scraper/playstore"
	"review-sentiment/sentiment"
	"review-sentiment/services"
	"review-sentiment/storage"
	"review-sentiment/utils"
)

// app holds the wired pipeline shared by the serve and analyze commands
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	service  *services.ReviewService
	closers  []func() error
}

// newApp loads the configuration and builds every pipeline component
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	a := &app{cfg: cfg, log: logger, registry: metrics.NewRegistry()}

	// ================== Lexicon ====================
	var extra []lexicon.Table
	if cfg.LexiconDatabaseURL != "" {
		src, err := storage.NewPostgresLexiconSource(ctx, cfg.LexiconDatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("lexicon database: %w", err)
		}
		a.closers = append(a.closers, src.Close)
		if extra, err = loadExtraTerms(ctx, src, termLocales(cfg.Locales())); err != nil {
			a.Close()
			return nil, err
		}
	}
	lex, err := buildLexicon(cfg.Locales(), extra)
	if err != nil {
		a.Close()
		return nil, err
	}
	stopwords, err := lexicon.NewStopwordProvider()
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("lexicon ready", "terms", lex.Len(), "locales", lex.Locales())

	// ================== Page cache ====================
	pipeline := metrics.NewPipelineMetrics(a.registry)
	cache, err := a.pageCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// ================== Storefronts ====================
	limiter := utils.NewRateLimiter(cfg.RateLimitDelay)
	apple := appstore.NewClient(logger,
		appstore.WithBaseURL(cfg.AppStoreBaseURL),
		appstore.WithFormat(appstore.Format(cfg.AppStoreFeedFormat)),
		appstore.WithTimeout(cfg.HTTPTimeout),
		appstore.WithMaxRetries(cfg.MaxRetries),
		appstore.WithRateLimiter(limiter),
	)
	google := playstore.NewScraper(playstore.Config{
		BaseURL:        cfg.PlayStoreBaseURL,
		ReviewsPerPage: cfg.PlayStoreReviewsPerPage,
		Headless:       cfg.ChromeHeadless,
		RateLimitDelay: cfg.RateLimitDelay,
	}, logger)

	a.service = services.NewReviewService(services.ReviewServiceConfig{
		Sources: map[models.Provider]services.PageSource{
			models.ProviderAppStore:  apple,
			models.ProviderPlayStore: google,
		},
		Cache:      storage.NewPageCacheLayer(cache, pipeline, logger),
		Normalizer: services.NewNormalizer(),
		Scorer:     sentiment.NewScorer(lex),
		Statistics: services.NewStatisticsAggregator(cfg.TopWords, logger),
		Stopwords:  stopwords,
		Metrics:    pipeline,
		Logger:     logger,
	})
	return a, nil
}

// pageCache picks Redis when REDIS_URL is set and an in-process LRU otherwise
func (a *app) pageCache(ctx context.Context) (storage.PageCache, error) {
	if a.cfg.RedisURL != "" {
		rdb, err := storage.NewRedisClient(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		cache := storage.NewRedisPageCache(rdb, a.cfg.CacheTTL)
		a.closers = append(a.closers, cache.Close)
		if err := cache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis page cache: %w", err)
		}
		a.log.Info("page cache ready", "backend", "redis", "ttl", a.cfg.CacheTTL)
		return cache, nil
	}

	cache, err := storage.NewMemoryPageCache(a.cfg.CacheSize, a.cfg.CacheTTL, clockwork.NewRealClock())
	if err != nil {
		return nil, err
	}
	a.log.Info("page cache ready", "backend", "memory", "size", a.cfg.CacheSize, "ttl", a.cfg.CacheTTL)
	return cache, nil
}

// Close releases the database and cache connections
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// baselineTermLocale is the locale under which stored terms extend the baseline lexicon
const baselineTermLocale = "en"

// termLocales lists the locales whose stored terms are loaded: the baseline first,
// then every augmentation locale once
func termLocales(locales []string) []string {
	out := []string{baselineTermLocale}
	for _, l := range locales {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

// loadExtraTerms reads the stored augmentation terms of every configured locale
func loadExtraTerms(ctx context.Context, src storage.LexiconSource, locales []string) ([]lexicon.Table, error) {
	tables := make([]lexicon.Table, 0, len(locales))
	for _, locale := range locales {
		t, err := src.LoadTerms(ctx, locale)
		if err != nil {
			return nil, fmt.Errorf("load %s lexicon terms: %w", locale, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// buildLexicon merges the embedded locale tables with terms loaded from the database
func buildLexicon(locales []string, extra []lexicon.Table) (*lexicon.Lexicon, error) {
	opts := []lexicon.Option{lexicon.WithLocales(locales...)}
	for _, t := range extra {
		opts = append(opts, lexicon.WithTable(t))
	}
	lex, err := lexicon.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build lexicon: %w", err)
	}
	return lex, nil
}
