package models

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationKind enumerates the ways request parameters can break their contract
type ValidationKind string

const (
	MissingCountry    ValidationKind = "missing_country"
	InvalidCountry    ValidationKind = "invalid_country"
	MissingAppID      ValidationKind = "missing_app_id"
	InvalidAppID      ValidationKind = "invalid_app_id"
	InvalidPages      ValidationKind = "invalid_pages"
	PagesOutOfRange   ValidationKind = "pages_out_of_range"
	UnknownProvider   ValidationKind = "unknown_provider"
	InvalidStatistics ValidationKind = "invalid_statistics"
	NoDocuments       ValidationKind = "no_documents"
)

// ValidationError reports a caller-supplied parameter outside its contract
type ValidationError struct {
	Kind    ValidationKind
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError reports a failed page retrieval or an unusable provider payload.
// Page is zero when the failure concerns the whole batch.
type FetchError struct {
	Provider Provider
	Page     int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("fetch %s page %d: %v", e.Provider, e.Page, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NormalizationError reports a raw record lacking a required canonical field
type NormalizationError struct {
	Provider Provider
	Field    string
	Path     []string
	Err      error
}

func (e *NormalizationError) Error() string {
	msg := fmt.Sprintf("normalize %s record: field %q (path %s)", e.Provider, e.Field, strings.Join(e.Path, "."))
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": missing"
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// ErrEmptyBatch means statistics were requested for zero reviews
var ErrEmptyBatch = errors.New("no reviews to aggregate")

// StatisticsError is recoverable: the review list stays valid, statistics are omitted
type StatisticsError struct {
	Err error
}

func (e *StatisticsError) Error() string {
	return "statistics: " + e.Err.Error()
}

func (e *StatisticsError) Unwrap() error {
	return e.Err
}
