// Package lexicon holds the immutable sentiment lexicon and the locale stopword sets.
//
// Both are built once at process start and shared read-only afterwards, so no
// locking is needed when concurrent scoring calls read them.
package lexicon

import (
	"bufio"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/*.tsv data/*.txt
var dataFS embed.FS

// Table maps a lowercase token to its base valence
type Table map[string]float64

// Lexicon is the merged, read-only valence and modifier table
type Lexicon struct {
	valences     map[string]float64
	boosters     map[string]float64
	negations    map[string]struct{}
	contrastives map[string]struct{}
	locales      []string
}

type buildConfig struct {
	locales []string
	tables  []Table
}

// Option customizes Build
type Option func(*buildConfig)

// WithLocales merges the embedded augmentation tables of the given locales
func WithLocales(locales ...string) Option {
	return func(c *buildConfig) {
		for _, l := range locales {
			l = strings.ToLower(strings.TrimSpace(l))
			if l != "" {
				c.locales = append(c.locales, l)
			}
		}
	}
}

// WithTable merges extra terms, e.g. loaded from a database; later tables win
func WithTable(t Table) Option {
	return func(c *buildConfig) {
		c.tables = append(c.tables, t)
	}
}

// AvailableLocales lists the embedded augmentation locales
func AvailableLocales() []string {
	locales := make([]string, 0, len(localeHeuristics))
	for l := range localeHeuristics {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Build merges the baseline lexicon with the requested augmentations
func Build(opts ...Option) (*Lexicon, error) {
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	base, err := loadTable("data/baseline.tsv")
	if err != nil {
		return nil, fmt.Errorf("load baseline lexicon: %w", err)
	}

	lex := &Lexicon{
		valences:     base,
		boosters:     make(map[string]float64, len(baselineHeuristics.boosters)),
		negations:    make(map[string]struct{}),
		contrastives: make(map[string]struct{}),
	}
	lex.addHeuristics(baselineHeuristics)

	for _, locale := range cfg.locales {
		h, ok := localeHeuristics[locale]
		if !ok {
			return nil, fmt.Errorf("unknown lexicon locale %q (available: %s)", locale, strings.Join(AvailableLocales(), ", "))
		}
		table, err := loadTable("data/" + locale + ".tsv")
		if err != nil {
			return nil, fmt.Errorf("load %s lexicon: %w", locale, err)
		}
		lex.merge(table)
		lex.addHeuristics(h)
		lex.locales = append(lex.locales, locale)
	}

	for _, t := range cfg.tables {
		lex.merge(t)
	}

	return lex, nil
}

func (l *Lexicon) merge(t Table) {
	for token, valence := range t {
		l.valences[strings.ToLower(token)] = valence
	}
}

func (l *Lexicon) addHeuristics(h heuristics) {
	for _, n := range h.negations {
		l.negations[n] = struct{}{}
	}
	for b, v := range h.boosters {
		l.boosters[b] = v
	}
	for _, c := range h.contrastives {
		l.contrastives[c] = struct{}{}
	}
}

// Valence returns the base valence of a lowercase token
func (l *Lexicon) Valence(token string) (float64, bool) {
	v, ok := l.valences[token]
	return v, ok
}

// Booster returns the scalar of a booster or damper word
func (l *Lexicon) Booster(token string) (float64, bool) {
	v, ok := l.boosters[token]
	return v, ok
}

// IsNegation reports whether a lowercase token negates what follows
func (l *Lexicon) IsNegation(token string) bool {
	if strings.HasSuffix(token, "n't") {
		return true
	}
	_, ok := l.negations[strings.ReplaceAll(token, "'", "")]
	return ok
}

// IsContrastive reports whether a lowercase token is a contrastive conjunction
func (l *Lexicon) IsContrastive(token string) bool {
	_, ok := l.contrastives[token]
	return ok
}

// Len returns the number of valence entries
func (l *Lexicon) Len() int {
	return len(l.valences)
}

// Locales returns the augmentation locales merged into this lexicon
func (l *Lexicon) Locales() []string {
	return append([]string(nil), l.locales...)
}

func loadTable(name string) (Table, error) {
	f, err := dataFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := make(Table, 512)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s:%d: expected token<TAB>valence", name, lineNo)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		table[strings.ToLower(strings.TrimSpace(parts[0]))] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
