// Package apperr defines the typed error outcomes surfaced by the catalog and
// recommendation services.
package apperr

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports client input that fails required or type constraints.
type ValidationError struct {
	Missing []string
	Invalid []FieldError
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	for _, fe := range e.Invalid {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Reason))
	}
	if len(parts) == 0 {
		return "invalid input"
	}
	return strings.Join(parts, "; ")
}

// HasProblems reports whether any field was missing or invalid.
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// NotFoundError reports an identifier with no corresponding row.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// StoreError reports a failed call to the durable store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// ExternalCallError reports a failed call to the generative model.
type ExternalCallError struct {
	Err error
}

func (e *ExternalCallError) Error() string { return fmt.Sprintf("generative model call: %v", e.Err) }
func (e *ExternalCallError) Unwrap() error { return e.Err }

// ExternalResponseInvalidError reports model output that does not conform to
// the expected structure. RawText is the untouched model output.
type ExternalResponseInvalidError struct {
	RawText string
	Err     error
}

func (e *ExternalResponseInvalidError) Error() string {
	return fmt.Sprintf("generative model returned an invalid response: %v", e.Err)
}
func (e *ExternalResponseInvalidError) Unwrap() error { return e.Err }
