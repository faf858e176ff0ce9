package sentiment

import (
	"strings"
	"unicode"
)

type token struct {
	lower string
	caps  bool // every letter upper case, at least two letters
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if r == '\'' || r == '-' {
		return false
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func tokenize(text string) []token {
	fields := strings.FieldsFunc(apostrophes.Replace(text), isSeparator)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'-")
		if f == "" {
			continue
		}
		tokens = append(tokens, token{lower: strings.ToLower(f), caps: isAllCaps(f)})
	}
	return tokens
}

func isAllCaps(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters > 1
}

// capsDifferential reports whether some, but not all, tokens are shouted
func capsDifferential(tokens []token) bool {
	caps := 0
	for _, t := range tokens {
		if t.caps {
			caps++
		}
	}
	return caps > 0 && caps < len(tokens)
}
