// Package appstore reads the Apple App Store customer-review RSS feed.
package appstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"review-sentiment/models"
	"review-sentiment/scraper"
	"review-sentiment/utils"
)

const (
	// DefaultBaseURL is the public iTunes host serving the review feed
	DefaultBaseURL = "https://itunes.apple.com"

	maxBodyBytes = 8 << 20
)

// Format selects the feed representation
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// StatusError reports a non-retryable upstream HTTP status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("appstore: unexpected status %d", e.Code)
}

// Client fetches review pages from the App Store feed
type Client struct {
	baseURL    string
	format     Format
	httpClient *http.Client
	limiter    *utils.RateLimiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	log        *slog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another host (for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithFormat selects the JSON or XML feed
func WithFormat(f Format) Option {
	return func(c *Client) { c.format = f }
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimiter shares a limiter across clients
func WithRateLimiter(l *utils.RateLimiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithMaxRetries sets the number of attempts for 5xx and network failures
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a Client with the default feed URL and JSON format
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		format:     FormatJSON,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    utils.NewRateLimiter(0),
		maxRetries: 3,
		log:        logger.With("adapter", "appstore"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "appstore",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// breakerSuccess counts only upstream faults against the breaker. A 4xx answer
// (e.g. an unknown app id) or a cancelled caller says nothing about the feed's health.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code < http.StatusInternalServerError
	}
	return false
}

// PageFunc binds the client to one app so it can be handed to scraper.FetchAll
func (c *Client) PageFunc(country, appID string) scraper.PageFunc {
	return func(ctx context.Context, page int) ([]models.RawRecord, error) {
		return c.FetchPage(ctx, country, appID, page)
	}
}

// FetchPage fetches and decodes one page of reviews.
// A feed without entries yields an empty page; a response without a feed is an error.
func (c *Client) FetchPage(ctx context.Context, country, appID string, page int) ([]models.RawRecord, error) {
	reqURL := c.pageURL(country, appID, page)

	c.log.DebugContext(ctx, "appstore request", slog.String("url", reqURL), slog.Int("page", page))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("appstore: rate limit wait: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, reqURL)
	})
	if err != nil {
		c.log.ErrorContext(ctx, "appstore request failed", slog.Int("page", page), slog.String("error", err.Error()))
		return nil, err
	}
	body := out.([]byte)

	var records []models.RawRecord
	switch c.format {
	case FormatXML:
		records, err = decodeXML(body)
	default:
		records, err = decodeJSON(body)
	}
	if err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "appstore response", slog.Int("page", page), slog.Int("entries", len(records)))
	return records, nil
}

func (c *Client) pageURL(country, appID string, page int) string {
	return fmt.Sprintf("%s/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/%s",
		c.baseURL, url.PathEscape(strings.ToLower(country)), page, url.PathEscape(appID), c.format)
}

// get retries 5xx and network failures; other statuses fail at once
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte
	err := utils.RetryWithBackoff(ctx, c.maxRetries, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return utils.Permanent(fmt.Errorf("appstore: create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return utils.Permanent(ctx.Err())
			}
			return fmt.Errorf("appstore: request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return &StatusError{Code: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return utils.Permanent(&StatusError{Code: resp.StatusCode})
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("appstore: read body: %w", err)
		}
		return nil
	}, c.log)
	if err != nil {
		return nil, err
	}
	return body, nil
}
