// Package sentiment scores free text with a lexicon plus a fixed set of rules:
// negation, booster/damper words, punctuation and capitalization emphasis, and
// contrastive conjunctions. Sentence scores are averaged into a document score.
//
// A Scorer holds no mutable state and may be shared by any number of goroutines.
package sentiment

import (
	"math"
	"regexp"
	"strings"

	"review-sentiment/lexicon"
	"review-sentiment/models"
)

const (
	lookBack = 3

	negationScalar = -0.74
	capsIncrement  = 0.733

	exclaimIncrement  = 0.292
	maxExclaims       = 4
	questionIncrement = 0.18
	maxQuestionAmp    = 0.96

	beforeContrastWeight = 0.5
	afterContrastWeight  = 1.5

	// normalizationAlpha approximates the max expected sentence sum
	normalizationAlpha = 15.0
	neutralThreshold   = 0.05
)

// boosterDistance damps modifiers that sit further away from the word they modify
var boosterDistance = [lookBack]float64{1.0, 0.95, 0.9}

var delimiterRun = regexp.MustCompile(`[.!?]+`)

// Scorer computes sentence and document sentiment against an immutable lexicon
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer creates a Scorer bound to lex
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score splits document into sentences, scores each one and averages the results.
// It never fails: an empty document yields a zero-valued DocumentSentiment.
func (s *Scorer) Score(document string) models.DocumentSentiment {
	sentences := splitSentences(document)
	doc := models.DocumentSentiment{
		Sentences:     make([]models.SentenceSentiment, 0, len(sentences)),
		SentenceCount: len(sentences),
	}
	if len(sentences) == 0 {
		return doc
	}

	for _, sent := range sentences {
		scored := s.scoreSentence(sent)
		doc.Sentences = append(doc.Sentences, scored)
		doc.Compound += scored.Compound
		doc.Negative += scored.Negative
		doc.Neutral += scored.Neutral
		doc.Positive += scored.Positive
	}

	n := float64(len(sentences))
	doc.Compound /= n
	doc.Negative /= n
	doc.Neutral /= n
	doc.Positive /= n
	return doc
}

// Compound is a shortcut for Score(document).Compound
func (s *Scorer) Compound(document string) float64 {
	return s.Score(document).Compound
}

type sentence struct {
	text  string
	punct string // delimiter run that closed the sentence
}

func splitSentences(document string) []sentence {
	var out []sentence
	start := 0
	for _, loc := range delimiterRun.FindAllStringIndex(document, -1) {
		if frag := strings.TrimSpace(document[start:loc[0]]); frag != "" {
			out = append(out, sentence{text: frag, punct: document[loc[0]:loc[1]]})
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(document[start:]); tail != "" {
		out = append(out, sentence{text: tail})
	}
	return out
}

func (s *Scorer) scoreSentence(sent sentence) models.SentenceSentiment {
	tokens := tokenize(sent.text)
	capsDiff := capsDifferential(tokens)
	valences := make([]float64, len(tokens))
	capsEmphasis := false

	for i, tok := range tokens {
		if s.isModifier(tok.lower) {
			continue
		}
		v, ok := s.lex.Valence(tok.lower)
		if !ok || v == 0 {
			continue
		}
		if capsDiff && tok.caps {
			capsEmphasis = true
		}
		if s.negated(tokens, i) {
			v *= negationScalar
		}
		v += s.boost(tokens, i, v, capsDiff)
		valences[i] = v
	}

	if idx := s.contrastiveIndex(tokens); idx >= 0 {
		for i := range valences {
			switch {
			case i < idx:
				valences[i] *= beforeContrastWeight
			case i > idx:
				valences[i] *= afterContrastWeight
			}
		}
	}

	emphasis := punctuationEmphasis(sent.punct)
	if capsEmphasis {
		emphasis += capsIncrement
	}

	var sum, posSum, negSum, neuCount float64
	for _, v := range valences {
		sum += v
		switch {
		case v > neutralThreshold:
			posSum += v + 1
		case v < -neutralThreshold:
			negSum += -v + 1
		default:
			neuCount++
		}
	}

	switch {
	case sum > 0:
		sum += emphasis
	case sum < 0:
		sum -= emphasis
	}
	switch {
	case posSum > negSum:
		posSum += emphasis
	case negSum > posSum:
		negSum += emphasis
	}

	result := models.SentenceSentiment{
		Text:     sent.text,
		Compound: normalize(sum),
	}
	total := posSum + negSum + neuCount
	if total == 0 {
		result.Neutral = 1
		return result
	}
	result.Positive = posSum / total
	result.Negative = negSum / total
	result.Neutral = neuCount / total
	return result
}

func (s *Scorer) isModifier(token string) bool {
	if _, ok := s.lex.Booster(token); ok {
		return true
	}
	return s.lex.IsNegation(token) || s.lex.IsContrastive(token)
}

func (s *Scorer) negated(tokens []token, i int) bool {
	for j := 1; j <= lookBack && i-j >= 0; j++ {
		if s.lex.IsNegation(tokens[i-j].lower) {
			return true
		}
	}
	return false
}

// boost returns the summed booster/damper shift for the valence at position i
func (s *Scorer) boost(tokens []token, i int, valence float64, capsDiff bool) float64 {
	var shift float64
	for j := 1; j <= lookBack && i-j >= 0; j++ {
		prev := tokens[i-j]
		scalar, ok := s.lex.Booster(prev.lower)
		if !ok {
			continue
		}
		if valence < 0 {
			scalar = -scalar
		}
		if capsDiff && prev.caps {
			if valence > 0 {
				scalar += capsIncrement
			} else {
				scalar -= capsIncrement
			}
		}
		shift += scalar * boosterDistance[j-1]
	}
	return shift
}

func (s *Scorer) contrastiveIndex(tokens []token) int {
	for i, tok := range tokens {
		if s.lex.IsContrastive(tok.lower) {
			return i
		}
	}
	return -1
}

func punctuationEmphasis(punct string) float64 {
	exclaims := strings.Count(punct, "!")
	if exclaims > maxExclaims {
		exclaims = maxExclaims
	}
	amp := float64(exclaims) * exclaimIncrement

	if questions := strings.Count(punct, "?"); questions > 1 {
		amp += math.Min(float64(questions)*questionIncrement, maxQuestionAmp)
	}
	return amp
}

func normalize(sum float64) float64 {
	c := sum / math.Sqrt(sum*sum+normalizationAlpha)
	return math.Max(-1, math.Min(1, c))
}
