package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"review-sentiment/models"
)

// Field names a canonical Review field
type Field string

const (
	FieldID         Field = "id"
	FieldAuthor     Field = "author"
	FieldTitle      Field = "title"
	FieldBody       Field = "body"
	FieldStarRating Field = "starRating"
	FieldVersion    Field = "version"
	FieldDate       Field = "date"
	FieldReply      Field = "reply"
)

// Transform converts a raw value into the type of its target field
type Transform func(v any) (any, error)

// FieldRule maps one raw path onto a canonical field
type FieldRule struct {
	Path      []string
	Target    Field
	Transform Transform
	Required  bool
}

// Mapping is the rule table of one provider
type Mapping struct {
	// WrapperKey unwraps objects such as {"label": "5"}; sibling keys like "attributes" are ignored
	WrapperKey string
	Rules      []FieldRule
}

var (
	errNotScalar  = errors.New("value is not a scalar")
	errEmptyValue = errors.New("value is empty")
)

// AppStoreMapping reads the label-wrapped customer-review feed entries
func AppStoreMapping(n *Normalizer) Mapping {
	return Mapping{
		WrapperKey: "label",
		Rules: []FieldRule{
			{Path: []string{"id"}, Target: FieldID, Transform: AsString, Required: true},
			{Path: []string{"author", "name"}, Target: FieldAuthor, Transform: AsString},
			{Path: []string{"title"}, Target: FieldTitle, Transform: n.PlainText},
			{Path: []string{"content"}, Target: FieldBody, Transform: n.PlainText, Required: true},
			{Path: []string{"im:rating"}, Target: FieldStarRating, Transform: AsInt, Required: true},
			{Path: []string{"im:version"}, Target: FieldVersion, Transform: AsString},
			{Path: []string{"updated"}, Target: FieldDate, Transform: AsString},
		},
	}
}

// PlayStoreMapping reads the flat records of the Play Store scraper
func PlayStoreMapping(n *Normalizer) Mapping {
	return Mapping{
		Rules: []FieldRule{
			{Path: []string{"id"}, Target: FieldID, Transform: AsString, Required: true},
			{Path: []string{"userName"}, Target: FieldAuthor, Transform: AsString},
			{Path: []string{"title"}, Target: FieldTitle, Transform: n.PlainText},
			{Path: []string{"text"}, Target: FieldBody, Transform: n.PlainText, Required: true},
			{Path: []string{"score"}, Target: FieldStarRating, Transform: AsInt, Required: true},
			{Path: []string{"version"}, Target: FieldVersion, Transform: AsString},
			{Path: []string{"date"}, Target: FieldDate, Transform: AsString},
			{Path: []string{"replyText"}, Target: FieldReply, Transform: n.PlainText},
		},
	}
}

// Normalizer converts raw provider records into canonical reviews by interpreting rule tables
type Normalizer struct {
	policy   *bluemonday.Policy
	mappings map[models.Provider]Mapping
}

// NewNormalizer creates a Normalizer with the App Store and Play Store mappings
func NewNormalizer() *Normalizer {
	n := &Normalizer{policy: bluemonday.StrictPolicy()}
	n.mappings = map[models.Provider]Mapping{
		models.ProviderAppStore:  AppStoreMapping(n),
		models.ProviderPlayStore: PlayStoreMapping(n),
	}
	return n
}

// Register adds or replaces the mapping of a provider
func (n *Normalizer) Register(provider models.Provider, m Mapping) {
	n.mappings[provider] = m
}

// Normalize applies the provider's rules to raw. Unknown raw fields are ignored,
// a missing optional field stays empty and a missing required one is a *models.NormalizationError.
// A required field that transforms to an empty string counts as missing.
func (n *Normalizer) Normalize(raw models.RawRecord, provider models.Provider) (models.Review, error) {
	mapping, ok := n.mappings[provider]
	if !ok {
		return models.Review{}, fmt.Errorf("no mapping for provider %q", provider)
	}

	review := models.Review{Provider: provider}
	for _, rule := range mapping.Rules {
		v, found := lookup(raw, rule.Path, mapping.WrapperKey)
		if !found {
			if rule.Required {
				return models.Review{}, &models.NormalizationError{Provider: provider, Field: string(rule.Target), Path: rule.Path}
			}
			continue
		}

		out, err := rule.Transform(v)
		if err == nil && rule.Required && out == "" {
			err = errEmptyValue
		}
		if err != nil {
			if rule.Required {
				return models.Review{}, &models.NormalizationError{Provider: provider, Field: string(rule.Target), Path: rule.Path, Err: err}
			}
			continue
		}
		if err := assign(&review, rule.Target, out); err != nil {
			return models.Review{}, &models.NormalizationError{Provider: provider, Field: string(rule.Target), Path: rule.Path, Err: err}
		}
	}
	return review, nil
}

// NormalizeAll normalizes a batch; the first failing record aborts it as a *models.FetchError
func (n *Normalizer) NormalizeAll(raws []models.RawRecord, provider models.Provider) ([]models.Review, error) {
	reviews := make([]models.Review, 0, len(raws))
	for _, raw := range raws {
		r, err := n.Normalize(raw, provider)
		if err != nil {
			return nil, &models.FetchError{Provider: provider, Err: err}
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// PlainText strips markup and decodes entities
func (n *Normalizer) PlainText(v any) (any, error) {
	s, err := AsString(v)
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(html.UnescapeString(n.policy.Sanitize(s.(string)))), nil
}

// AsString renders a scalar as a trimmed string
func AsString(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return nil, fmt.Errorf("%w: %T", errNotScalar, v)
	}
}

// AsInt converts a number or numeric string into an int
func AsInt(v any) (any, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(math.Round(t)), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", t)
		}
		return int(math.Round(f)), nil
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", t)
		}
		return int(math.Round(f)), nil
	default:
		return nil, fmt.Errorf("%w: %T", errNotScalar, v)
	}
}

// lookup follows path through nested objects and unwraps the value found at its end
func lookup(raw models.RawRecord, path []string, wrapperKey string) (any, bool) {
	var cur any = map[string]any(raw)
	for _, key := range path {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	if wrapperKey != "" {
		if m, ok := asObject(cur); ok {
			if inner, ok := m[wrapperKey]; ok {
				cur = inner
			}
		}
	}
	return cur, cur != nil
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case models.RawRecord:
		return t, true
	default:
		return nil, false
	}
}

func assign(r *models.Review, target Field, v any) error {
	if target == FieldStarRating {
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("want int, got %T", v)
		}
		r.StarRating = n
		return nil
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("want string, got %T", v)
	}
	switch target {
	case FieldID:
		r.ID = s
	case FieldAuthor:
		r.Author = s
	case FieldTitle:
		r.Title = s
	case FieldBody:
		r.Body = s
	case FieldVersion:
		r.Version = s
	case FieldDate:
		r.Date = s
	case FieldReply:
		r.Reply = s
	default:
		return fmt.Errorf("unknown target field %q", target)
	}
	return nil
}
