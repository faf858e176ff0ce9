package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-sentiment/models"
)

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"appstore", "Apple", " ios "} {
		p, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, models.ProviderAppStore, p)
	}
	for _, name := range []string{"playstore", "google", "ANDROID"} {
		p, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, models.ProviderPlayStore, p)
	}

	_, err := ParseProvider("winstore")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.UnknownProvider, verr.Kind)
}

func TestValidateQuery_Defaults(t *testing.T) {
	q, err := ValidateQuery(QueryParams{Provider: "apple", Country: "BE", AppID: "1234567"})
	require.NoError(t, err)

	assert.Equal(t, models.ReviewQuery{
		Provider:       models.ProviderAppStore,
		Country:        "be",
		AppID:          "1234567",
		Pages:          1,
		WithStatistics: true,
	}, q)
}

func TestValidateQuery_Explicit(t *testing.T) {
	q, err := ValidateQuery(QueryParams{
		Provider:   "google",
		Country:    "nl",
		AppID:      "com.example.app_2",
		Pages:      "10",
		Statistics: "false",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, q.Pages)
	assert.False(t, q.WithStatistics)
	assert.Equal(t, "com.example.app_2", q.AppID)
}

func TestValidateQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params QueryParams
		kind   models.ValidationKind
	}{
		{"missing country", QueryParams{Provider: "apple", AppID: "1"}, models.MissingCountry},
		{"invalid country", QueryParams{Provider: "apple", Country: "b-e", AppID: "1"}, models.InvalidCountry},
		{"missing app id", QueryParams{Provider: "apple", Country: "be"}, models.MissingAppID},
		{"non numeric app store id", QueryParams{Provider: "apple", Country: "be", AppID: "com.example"}, models.InvalidAppID},
		{"play store id without package", QueryParams{Provider: "google", Country: "be", AppID: "12345"}, models.InvalidAppID},
		{"pages not a number", QueryParams{Provider: "apple", Country: "be", AppID: "1", Pages: "two"}, models.InvalidPages},
		{"pages zero", QueryParams{Provider: "apple", Country: "be", AppID: "1", Pages: "0"}, models.PagesOutOfRange},
		{"pages above max", QueryParams{Provider: "apple", Country: "be", AppID: "1", Pages: "11"}, models.PagesOutOfRange},
		{"statistics not a bool", QueryParams{Provider: "apple", Country: "be", AppID: "1", Statistics: "maybe"}, models.InvalidStatistics},
		{"unknown provider", QueryParams{Provider: "nokia", Country: "be", AppID: "1"}, models.UnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateQuery(tt.params)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.NotEmpty(t, verr.Message)
		})
	}
}
