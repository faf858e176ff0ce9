package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"review-sentiment/lexicon"
)

const selectTermsQuery = `SELECT token, valence FROM lexicon_terms WHERE locale = $1`

// PostgresLexiconSource reads curated lexicon terms from PostgreSQL. It never writes.
type PostgresLexiconSource struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresLexiconSource opens the connection pool and pings the DB
func NewPostgresLexiconSource(ctx context.Context, connStr string, logger *slog.Logger) (*PostgresLexiconSource, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL lexicon source")
	return NewPostgresLexiconSourceWithDB(db, logger), nil
}

// NewPostgresLexiconSourceWithDB wraps an already open pool (for testing)
func NewPostgresLexiconSourceWithDB(db *sql.DB, logger *slog.Logger) *PostgresLexiconSource {
	return &PostgresLexiconSource{db: db, log: logger.With("component", "lexicon_source")}
}

// LoadTerms returns every term stored for locale
func (s *PostgresLexiconSource) LoadTerms(ctx context.Context, locale string) (lexicon.Table, error) {
	rows, err := s.db.QueryContext(ctx, selectTermsQuery, strings.ToLower(locale))
	if err != nil {
		return nil, fmt.Errorf("failed to query lexicon terms: %w", err)
	}
	defer rows.Close()

	table := lexicon.Table{}
	for rows.Next() {
		var token string
		var valence float64
		if err := rows.Scan(&token, &valence); err != nil {
			return nil, fmt.Errorf("failed to scan lexicon term: %w", err)
		}
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		table[token] = valence
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lexicon terms: %w", err)
	}

	s.log.InfoContext(ctx, "lexicon terms loaded", "locale", locale, "terms", len(table))
	return table, nil
}

// Close closes the database connection
func (s *PostgresLexiconSource) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
