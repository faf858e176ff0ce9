package storage

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"review-sentiment/metrics"
	"review-sentiment/models"
	"review-sentiment/scraper"
)

// SharedFetchTimeout bounds an upstream page fetch shared by concurrent callers
const SharedFetchTimeout = 3 * time.Minute

// PageCacheLayer puts a read-through PageCache in front of page fetches
type PageCacheLayer struct {
	cache   PageCache
	group   singleflight.Group
	timeout time.Duration
	metrics *metrics.PipelineMetrics
	log     *slog.Logger
}

// NewPageCacheLayer creates a PageCacheLayer; m may be nil
func NewPageCacheLayer(cache PageCache, m *metrics.PipelineMetrics, logger *slog.Logger) *PageCacheLayer {
	return &PageCacheLayer{
		cache:   cache,
		timeout: SharedFetchTimeout,
		metrics: m,
		log:     logger.With("component", "page_cache"),
	}
}

// PageKey builds the cache key of one page
func PageKey(prefix string, page int) string {
	return prefix + ":page:" + strconv.Itoa(page)
}

// CachedPages wraps fetch so pages are served from the cache when present.
// Concurrent misses for the same key share one upstream call, which runs detached
// from any single caller's cancellation; each caller still returns as soon as its
// own ctx is done. Cache failures are logged and bypassed; fetch errors are never cached.
func (l *PageCacheLayer) CachedPages(provider models.Provider, prefix string, fetch scraper.PageFunc) scraper.PageFunc {
	return func(ctx context.Context, page int) ([]models.RawRecord, error) {
		key := PageKey(prefix, page)

		records, ok, err := l.cache.Get(ctx, key)
		switch {
		case err != nil:
			l.log.WarnContext(ctx, "page cache read failed", "key", key, "error", err)
		case ok:
			l.metrics.CacheHit(string(provider))
			return records, nil
		}
		l.metrics.CacheMiss(string(provider))

		ch := l.group.DoChan(key, func() (interface{}, error) {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
			defer cancel()

			records, err := fetch(sctx, page)
			if err != nil {
				return nil, err
			}
			if err := l.cache.Set(sctx, key, records); err != nil {
				l.log.WarnContext(sctx, "page cache write failed", "key", key, "error", err)
			}
			return records, nil
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Val.([]models.RawRecord), nil
		}
	}
}
