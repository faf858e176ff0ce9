// Package scraper fans page retrieval out over the storefront clients.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"review-sentiment/metrics"
	"review-sentiment/models"
)

const (
	// MinPages and MaxPages bound a single retrieval
	MinPages = 1
	MaxPages = 10
)

// PageFunc fetches the raw records of one 1-based page
type PageFunc func(ctx context.Context, page int) ([]models.RawRecord, error)

// FetchAll fetches pages 1..pageCount concurrently and concatenates them in page order.
// The first failing page cancels the others and is returned as a *models.FetchError;
// no partial result is returned.
func FetchAll(ctx context.Context, provider models.Provider, pageCount int, fetch PageFunc) ([]models.RawRecord, error) {
	if pageCount < MinPages || pageCount > MaxPages {
		return nil, &models.ValidationError{
			Kind:    models.PagesOutOfRange,
			Param:   "pages",
			Message: fmt.Sprintf("pages must be between %d and %d, got %d", MinPages, MaxPages, pageCount),
		}
	}

	results := make([][]models.RawRecord, pageCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxPages)

	for i := 0; i < pageCount; i++ {
		page := i + 1
		g.Go(func() error {
			records, err := fetch(gctx, page)
			if err != nil {
				var fe *models.FetchError
				if errors.As(err, &fe) {
					return fe
				}
				return &models.FetchError{Provider: provider, Page: page, Err: err}
			}
			results[page-1] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]models.RawRecord, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Instrument wraps fetch so every page call is recorded in m
func Instrument(provider models.Provider, m *metrics.PipelineMetrics, fetch PageFunc) PageFunc {
	if m == nil {
		return fetch
	}
	return func(ctx context.Context, page int) ([]models.RawRecord, error) {
		start := time.Now()
		records, err := fetch(ctx, page)
		m.ObservePage(string(provider), time.Since(start), err)
		return records, err
	}
}
