package models

// Provider identifies a storefront feed
type Provider string

const (
	ProviderAppStore  Provider = "appstore"
	ProviderPlayStore Provider = "playstore"
)

// RawRecord is one provider record as deserialized from the wire format
type RawRecord map[string]any

// Review is the canonical, provider-agnostic review record
type Review struct {
	Provider   Provider
	ID         string
	Author     string
	Title      string
	Body       string
	StarRating int
	Version    string
	Date       string
	Reply      string
	Sentiment  *float64 // nil until scored
}

// SentimentScore returns the compound sentiment, or 0 for an unscored review
func (r Review) SentimentScore() float64 {
	if r.Sentiment == nil {
		return 0
	}
	return *r.Sentiment
}

// UnknownAuthor is shown for reviews without an author name
const UnknownAuthor = "Unknown user"

// DisplayAuthor returns the author name or UnknownAuthor
func (r Review) DisplayAuthor() string {
	if r.Author == "" {
		return UnknownAuthor
	}
	return r.Author
}

// Document returns the text that is scored for this review
func (r Review) Document() string {
	if r.Title == "" {
		return r.Body
	}
	return r.Title + ". " + r.Body
}

// ReviewQuery holds validated request parameters
type ReviewQuery struct {
	Provider       Provider
	Country        string
	AppID          string
	Pages          int
	WithStatistics bool
}

// ReviewReport is the result of one review retrieval run
type ReviewReport struct {
	Reviews    []Review
	Statistics *Statistics // nil when statistics could not be computed
}
