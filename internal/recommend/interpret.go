package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

var (
	leadingFence  = regexp.MustCompile("^\\s*```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```\\s*$")
)

// ParseError reports model output that does not decode into a Recommendation.
// RawText is the text as received, before sanitizing.
type ParseError struct {
	RawText string
	Err     error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse recommendation: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Sanitize removes a leading code fence (optionally language-tagged) and a
// trailing code fence. Text without fences is returned unchanged.
func Sanitize(raw string) string {
	out := raw
	if loc := leadingFence.FindStringIndex(out); loc != nil {
		out = out[loc[1]:]
	}
	if loc := trailingFence.FindStringIndex(out); loc != nil {
		out = out[:loc[0]]
	}
	if out == raw {
		return raw
	}
	return strings.TrimSpace(out)
}

type wireItem struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Reason *string `json:"reason"`
}

type wireRecommendation struct {
	Introduction        *string     `json:"introduction"`
	RecommendedProducts *[]wireItem `json:"recommendedProducts"`
}

// Parse sanitizes raw model output and decodes it into a Recommendation, so
// fenced and unfenced text yield the same result. Any failure yields a
// *ParseError carrying raw verbatim. Whether ids reference real candidates is
// not checked.
func Parse(raw string) (model.Recommendation, error) {
	rec, err := parse(Sanitize(raw))
	if err != nil {
		return model.Recommendation{}, &ParseError{RawText: raw, Err: err}
	}
	return rec, nil
}

func parse(text string) (model.Recommendation, error) {
	var w wireRecommendation
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return model.Recommendation{}, err
	}
	if w.Introduction == nil {
		return model.Recommendation{}, errors.New("missing introduction")
	}
	if w.RecommendedProducts == nil {
		return model.Recommendation{}, errors.New("missing recommendedProducts")
	}
	items := *w.RecommendedProducts
	if len(items) > MaxRecommendedProducts {
		return model.Recommendation{}, fmt.Errorf("recommendedProducts has %d entries, at most %d allowed", len(items), MaxRecommendedProducts)
	}
	rec := model.Recommendation{
		Introduction:        *w.Introduction,
		RecommendedProducts: make([]model.RecommendedProduct, 0, len(items)),
	}
	for i, it := range items {
		if it.ID == nil || it.Name == nil || it.Reason == nil {
			return model.Recommendation{}, fmt.Errorf("recommendedProducts[%d] must have id, name and reason", i)
		}
		rec.RecommendedProducts = append(rec.RecommendedProducts, model.RecommendedProduct{
			ID:     *it.ID,
			Name:   *it.Name,
			Reason: *it.Reason,
		})
	}
	return rec, nil
}
