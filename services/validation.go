package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"review-sentiment/models"
	"review-sentiment/scraper"
)

var (
	countryPattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	appStoreIDRegex  = regexp.MustCompile(`^[0-9]+$`)
	playStoreIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)+$`)
)

// QueryParams are the unvalidated request parameters of a review query
type QueryParams struct {
	Provider   string
	Country    string
	AppID      string
	Pages      string
	Statistics string
}

// ParseProvider maps a provider name or route alias onto a Provider
func ParseProvider(name string) (models.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "appstore", "apple", "ios":
		return models.ProviderAppStore, nil
	case "playstore", "google", "android":
		return models.ProviderPlayStore, nil
	default:
		return "", &models.ValidationError{
			Kind:    models.UnknownProvider,
			Param:   "provider",
			Message: fmt.Sprintf("unknown provider %q", name),
		}
	}
}

// ValidateQuery checks the parameters and returns the query they describe.
// Pages defaults to 1; statistics default to on.
func ValidateQuery(p QueryParams) (models.ReviewQuery, error) {
	provider, err := ParseProvider(p.Provider)
	if err != nil {
		return models.ReviewQuery{}, err
	}

	country := strings.TrimSpace(p.Country)
	if country == "" {
		return models.ReviewQuery{}, invalid(models.MissingCountry, "country", "country is required")
	}
	if !countryPattern.MatchString(country) {
		return models.ReviewQuery{}, invalid(models.InvalidCountry, "country", fmt.Sprintf("invalid country %q", country))
	}

	appID := strings.TrimSpace(p.AppID)
	if appID == "" {
		return models.ReviewQuery{}, invalid(models.MissingAppID, "appID", "appID is required")
	}
	idPattern := appStoreIDRegex
	if provider == models.ProviderPlayStore {
		idPattern = playStoreIDRegex
	}
	if !idPattern.MatchString(appID) {
		return models.ReviewQuery{}, invalid(models.InvalidAppID, "appID", fmt.Sprintf("invalid appID %q", appID))
	}

	pages := 1
	if s := strings.TrimSpace(p.Pages); s != "" {
		pages, err = strconv.Atoi(s)
		if err != nil {
			return models.ReviewQuery{}, invalid(models.InvalidPages, "pages", fmt.Sprintf("pages must be an integer, got %q", s))
		}
	}
	if pages < scraper.MinPages || pages > scraper.MaxPages {
		return models.ReviewQuery{}, invalid(models.PagesOutOfRange, "pages",
			fmt.Sprintf("pages must be between %d and %d, got %d", scraper.MinPages, scraper.MaxPages, pages))
	}

	withStats := true
	if s := strings.TrimSpace(p.Statistics); s != "" {
		if withStats, err = strconv.ParseBool(s); err != nil {
			return models.ReviewQuery{}, invalid(models.InvalidStatistics, "statistics", fmt.Sprintf("statistics must be a boolean, got %q", s))
		}
	}

	return models.ReviewQuery{
		Provider:       provider,
		Country:        strings.ToLower(country),
		AppID:          appID,
		Pages:          pages,
		WithStatistics: withStats,
	}, nil
}

func invalid(kind models.ValidationKind, param, msg string) *models.ValidationError {
	return &models.ValidationError{Kind: kind, Param: param, Message: msg}
}
