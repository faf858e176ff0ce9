package lexicon

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultStopwordLanguage is used for unrecognized locale codes
const DefaultStopwordLanguage = "en"

var stopwordLanguages = []string{"en", "nl", "de", "fr", "es"}

// countryLanguage maps storefront country codes to a stopword language
var countryLanguage = map[string]string{
	"us": "en", "gb": "en", "uk": "en", "au": "en", "ca": "en", "ie": "en", "nz": "en",
	"nl": "nl", "be": "nl", "sr": "nl",
	"de": "de", "at": "de", "ch": "de",
	"fr": "fr", "lu": "fr",
	"es": "es", "mx": "es", "ar": "es", "co": "es", "cl": "es",
}

// Set is an immutable set of words
type Set struct {
	lang  string
	words map[string]struct{}
}

// Has reports whether word is in the set
func (s Set) Has(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of words
func (s Set) Len() int {
	return len(s.words)
}

// Language returns the language the set belongs to
func (s Set) Language() string {
	return s.lang
}

// Tag returns the BCP 47 tag of the set's language, for locale-aware casing
func (s Set) Tag() language.Tag {
	if s.lang == "" {
		return language.English
	}
	return language.Make(s.lang)
}

// StopwordProvider resolves locale codes to stopword sets
type StopwordProvider struct {
	sets map[string]Set
}

// NewStopwordProvider loads every embedded stopword list
func NewStopwordProvider() (*StopwordProvider, error) {
	p := &StopwordProvider{sets: make(map[string]Set)}
	for _, lang := range stopwordLanguages {
		raw, err := dataFS.ReadFile("data/stopwords_" + lang + ".txt")
		if err != nil {
			return nil, fmt.Errorf("load %s stopwords: %w", lang, err)
		}
		words := make(map[string]struct{})
		for _, w := range strings.Fields(string(raw)) {
			words[strings.ToLower(w)] = struct{}{}
		}
		p.sets[lang] = Set{lang: lang, words: words}
	}
	return p, nil
}

// Get returns the stopwords for a language or storefront country code, falling back to English
func (p *StopwordProvider) Get(code string) Set {
	return p.sets[LanguageFor(code)]
}

// LanguageFor resolves a language or storefront country code to one of the supported languages
func LanguageFor(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if isSupported(code) {
		return code
	}
	if lang, ok := countryLanguage[code]; ok {
		return lang
	}
	if base, _ := language.Make(code).Base(); isSupported(base.String()) {
		return base.String()
	}
	return DefaultStopwordLanguage
}

func isSupported(lang string) bool {
	for _, l := range stopwordLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
