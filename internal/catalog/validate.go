// Package catalog implements the product resource: input validation, the store
// contract and the service applying create, full-replace, merge and delete.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fairyhunter13/petshop-catalog-service/internal/apperr"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// Input is a product request body decoded as raw JSON values keyed by field.
type Input map[string]json.RawMessage

// Field names accepted in product request bodies.
const (
	FieldName          = "name"
	FieldPrice         = "price"
	FieldCurrency      = "currency"
	FieldCategory      = "category"
	FieldStatus        = "status"
	FieldTargetSpecies = "targetSpecies"
	FieldDescription   = "description"
)

var readOnlyFields = map[string]bool{"productId": true, "updatedAt": true}

// Strictness selects which fields product creation requires.
type Strictness string

const (
	// StrictnessStrict requires name, price and status on create.
	StrictnessStrict Strictness = "strict"
	// StrictnessLenient requires only name and price on create; status stays unset.
	StrictnessLenient Strictness = "lenient"
)

// ParseStrictness maps a config value to a Strictness. Empty means strict.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrictnessStrict:
		return StrictnessStrict, nil
	case StrictnessLenient:
		return StrictnessLenient, nil
	}
	return "", fmt.Errorf("unknown validation strictness %q", s)
}

// CreateRequired lists the fields a create must carry under s.
func (s Strictness) CreateRequired() []string {
	if s == StrictnessLenient {
		return []string{FieldName, FieldPrice}
	}
	return []string{FieldName, FieldPrice, FieldStatus}
}

// FullReplaceRequired lists the fields a full replace must carry.
var FullReplaceRequired = []string{FieldName, FieldPrice, FieldStatus, FieldCurrency, FieldCategory}

// ValidateForCreate checks a create body under the given strictness and
// returns the typed fields.
func ValidateForCreate(in Input, s Strictness) (model.ProductFields, error) {
	return validate(in, s.CreateRequired())
}

// ValidateForFullReplace checks that every replaceable field is supplied.
func ValidateForFullReplace(in Input) (model.ProductFields, error) {
	return validate(in, FullReplaceRequired)
}

// ValidateForPartialUpdate checks only the type constraints of present fields.
func ValidateForPartialUpdate(in Input) (model.ProductFields, error) {
	return validate(in, nil)
}

func validate(in Input, required []string) (model.ProductFields, error) {
	var f model.ProductFields
	verr := &apperr.ValidationError{}
	invalid := func(field, reason string) {
		verr.Invalid = append(verr.Invalid, apperr.FieldError{Field: field, Reason: reason})
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := in[k]
		if readOnlyFields[k] {
			invalid(k, "is read-only")
			continue
		}
		if isNull(raw) {
			continue
		}
		switch k {
		case FieldName:
			s, ok := decodeString(raw)
			if !ok {
				invalid(k, "must be a string")
				continue
			}
			if s == "" {
				invalid(k, "must not be empty")
				continue
			}
			f.Name = &s
		case FieldPrice:
			var n float64
			if err := json.Unmarshal(raw, &n); err != nil || math.IsInf(n, 0) {
				invalid(k, "must be a number")
				continue
			}
			if n < 0 {
				invalid(k, "must be non-negative")
				continue
			}
			f.Price = &n
		case FieldStatus:
			s, ok := decodeString(raw)
			if !ok {
				invalid(k, "must be a string")
				continue
			}
			s = strings.ToUpper(s)
			if s != model.StatusActive && s != model.StatusInactive {
				invalid(k, "must be one of ACTIVE, INACTIVE")
				continue
			}
			f.Status = &s
		case FieldCurrency, FieldCategory, FieldTargetSpecies, FieldDescription:
			s, ok := decodeString(raw)
			if !ok {
				invalid(k, "must be a string")
				continue
			}
			switch k {
			case FieldCurrency:
				f.Currency = &s
			case FieldCategory:
				f.Category = &s
			case FieldTargetSpecies:
				f.TargetSpecies = &s
			case FieldDescription:
				f.Description = &s
			}
		default:
			invalid(k, "is not a known field")
		}
	}

	for _, k := range required {
		if isNull(in[k]) {
			verr.Missing = append(verr.Missing, k)
		}
	}
	if verr.HasProblems() {
		return model.ProductFields{}, verr
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}
