package storage

import (
	"context"

	"review-sentiment/lexicon"
	"review-sentiment/models"
)

// PageCache stores the raw records of fetched storefront pages
type PageCache interface {
	Get(ctx context.Context, key string) ([]models.RawRecord, bool, error)
	Set(ctx context.Context, key string, records []models.RawRecord) error
}

// LexiconSource supplies extra valence terms for a locale
type LexiconSource interface {
	LoadTerms(ctx context.Context, locale string) (lexicon.Table, error)
	Close() error
}

// ReviewExporter writes scored reviews somewhere outside the process
type ReviewExporter interface {
	Export(reviews []models.Review) error
}
