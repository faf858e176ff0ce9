// Package playstore renders the Google Play Store reviews dialog and extracts review cards.
package playstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"review-sentiment/lexicon"
	"review-sentiment/models"
	"review-sentiment/scraper"
	"review-sentiment/utils"
)

const (
	// DefaultBaseURL is the public Play Store host
	DefaultBaseURL = "https://play.google.com"

	dialogSelector     = `div[role="dialog"]`
	allReviewsSelector = `//button[.//span[contains(., "reviews")]]`

	renderTimeout = 2 * time.Minute
	scrollPause   = 1200 * time.Millisecond
	maxStalls     = 3
)

// ErrNoReviewsDialog means the page never showed a reviews dialog, e.g. for an unknown app
var ErrNoReviewsDialog = errors.New("playstore: reviews dialog not found")

// Config holds the Scraper settings
type Config struct {
	BaseURL        string
	ReviewsPerPage int
	Headless       bool
	RateLimitDelay int // milliseconds between page renders
}

// Scraper renders Play Store review pages with a headless Chrome
type Scraper struct {
	cfg         Config
	rateLimiter *utils.RateLimiter
	log         *slog.Logger
}

// NewScraper creates a new Scraper
func NewScraper(cfg Config, logger *slog.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ReviewsPerPage < 1 {
		cfg.ReviewsPerPage = 40
	}
	return &Scraper{
		cfg:         cfg,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		log:         logger.With("adapter", "playstore"),
	}
}

// newContext creates a fresh chromedp context (one browser, one tab) bound to parent
func (s *Scraper) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("log-level", "3"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// PageFunc binds the scraper to one app so it can be handed to scraper.FetchAll
func (s *Scraper) PageFunc(country, appID string) scraper.PageFunc {
	return func(ctx context.Context, page int) ([]models.RawRecord, error) {
		return s.FetchPage(ctx, country, appID, page)
	}
}

// FetchPage renders enough of the reviews dialog to cover page and returns that page's cards
func (s *Scraper) FetchPage(ctx context.Context, country, appID string, page int) ([]models.RawRecord, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("playstore: rate limit wait: %w", err)
	}

	want := page * s.cfg.ReviewsPerPage
	s.log.DebugContext(ctx, "rendering reviews", "app_id", appID, "country", country, "page", page, "want", want)

	html, err := s.render(ctx, s.detailsURL(country, appID), want)
	if err != nil {
		return nil, err
	}

	records, err := ParseReviews(html)
	if err != nil {
		return nil, err
	}

	window := Window(records, page, s.cfg.ReviewsPerPage)
	s.log.DebugContext(ctx, "parsed reviews", "page", page, "cards", len(records), "window", len(window))
	return window, nil
}

func (s *Scraper) detailsURL(country, appID string) string {
	q := url.Values{}
	q.Set("id", appID)
	q.Set("gl", strings.ToUpper(country))
	q.Set("hl", lexicon.LanguageFor(country))
	return s.cfg.BaseURL + "/store/apps/details?" + q.Encode()
}

// render opens the reviews dialog and scrolls it until want cards are loaded or it stops growing
func (s *Scraper) render(ctx context.Context, pageURL string, want int) (string, error) {
	bctx, cancel := s.newContext(ctx)
	defer cancel()

	bctx, cancelTimeout := context.WithTimeout(bctx, renderTimeout)
	defer cancelTimeout()

	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Click(allReviewsSelector, chromedp.BySearch),
		chromedp.WaitVisible(dialogSelector, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrNoReviewsDialog, err)
	}

	count, stalls := 0, 0
	for count < want && stalls < maxStalls {
		var scrolled bool
		var n int
		err := chromedp.Run(bctx,
			chromedp.Evaluate(scrollDialogJS, &scrolled),
			chromedp.Sleep(scrollPause),
			chromedp.Evaluate(`document.querySelectorAll('`+dialogSelector+` `+cardSelector+`').length`, &n),
		)
		if err != nil {
			return "", fmt.Errorf("playstore: scroll reviews: %w", err)
		}
		if n <= count {
			stalls++
		} else {
			stalls = 0
		}
		count = n
	}
	s.log.DebugContext(ctx, "reviews dialog loaded", "cards", count, "want", want)

	var html string
	if err := chromedp.Run(bctx, chromedp.OuterHTML(dialogSelector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("playstore: read dialog html: %w", err)
	}
	return html, nil
}

// scrollDialogJS scrolls the first scrollable element inside the reviews dialog to its end
const scrollDialogJS = `
	(function() {
		var dialog = document.querySelector('div[role="dialog"]');
		if (!dialog) return false;
		var target = Array.from(dialog.querySelectorAll('div')).find(function(el) {
			return el.scrollHeight > el.clientHeight + 10;
		}) || dialog;
		target.scrollTop = target.scrollHeight;
		return true;
	})()
`
