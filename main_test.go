package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-sentiment/lexicon"
	"review-sentiment/models"
)

type fakeLexiconSource struct {
	terms map[string]lexicon.Table
	err   error
}

func (f *fakeLexiconSource) LoadTerms(_ context.Context, locale string) (lexicon.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.terms[locale], nil
}

func (f *fakeLexiconSource) Close() error { return nil }

func TestLoadExtraTermsAndBuildLexicon(t *testing.T) {
	src := &fakeLexiconSource{terms: map[string]lexicon.Table{
		"nl": {"superhandig": 2.5},
	}}

	tables, err := loadExtraTerms(context.Background(), src, []string{"nl"})
	require.NoError(t, err)
	require.Len(t, tables, 1)

	lex, err := buildLexicon([]string{"nl"}, tables)
	require.NoError(t, err)

	v, ok := lex.Valence("superhandig")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestTermLocales(t *testing.T) {
	assert.Equal(t, []string{"en"}, termLocales(nil))
	assert.Equal(t, []string{"en", "nl"}, termLocales([]string{"nl"}))
	assert.Equal(t, []string{"en", "nl"}, termLocales([]string{" NL ", "en", "nl", ""}))
}

func TestLoadExtraTerms_BaselineTermsWithoutLocales(t *testing.T) {
	src := &fakeLexiconSource{terms: map[string]lexicon.Table{
		"en": {"buggy": -1.8},
	}}

	tables, err := loadExtraTerms(context.Background(), src, termLocales(nil))
	require.NoError(t, err)

	lex, err := buildLexicon(nil, tables)
	require.NoError(t, err)

	v, ok := lex.Valence("buggy")
	assert.True(t, ok)
	assert.Equal(t, -1.8, v)
}

func TestLoadExtraTerms_Error(t *testing.T) {
	src := &fakeLexiconSource{err: errors.New("connection refused")}

	_, err := loadExtraTerms(context.Background(), src, []string{"nl"})
	assert.ErrorContains(t, err, "load nl lexicon terms")
}

func TestAnalyzeOptions_QueryParams(t *testing.T) {
	o := analyzeOptions{provider: "google", country: "be", appID: "com.example.app", pages: 3, noStatistics: true}

	p := o.queryParams()
	assert.Equal(t, "google", p.Provider)
	assert.Equal(t, "3", p.Pages)
	assert.Equal(t, "false", p.Statistics)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "analyze")
}

func TestAnalyzeCmd_RejectsInvalidQuery(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--country", "nl", "--app-id", "123", "--pages", "11"})

	err := root.Execute()

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.PagesOutOfRange, verr.Kind)
}

func TestAnalyzeCmd_RequiresAppID(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--country", "nl"})

	assert.ErrorContains(t, root.Execute(), "app-id")
}
