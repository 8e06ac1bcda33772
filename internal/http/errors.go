// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fairyhunter13/petshop-catalog-service/internal/apperr"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

// Error codes returned in JSON error bodies.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeNotFound             = "NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeIAResponseInvalid    = "IA_RESPONSE_INVALID"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Code          string              `json:"code"`
	Message       string              `json:"message"`
	MissingFields []string            `json:"missingFields,omitempty"`
	InvalidFields []apperr.FieldError `json:"invalidFields,omitempty"`
	RawResponse   *string             `json:"raw_response,omitempty"`
	ErrorDetails  string              `json:"error_details,omitempty"`
	RequestID     string              `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, jsonError{Code: code, Message: message})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	WriteJSONError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed,
		"method "+r.Method+" is not allowed on this route")
}

// writeAppError maps the service error taxonomy onto a status and body.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestIDFromContext(r.Context())

	var (
		verr     *apperr.ValidationError
		nferr    *apperr.NotFoundError
		invalid  *apperr.ExternalResponseInvalidError
		storeErr *apperr.StoreError
		callErr  *apperr.ExternalCallError
	)
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, jsonError{
			Code:          CodeBadRequest,
			Message:       verr.Error(),
			MissingFields: verr.Missing,
			InvalidFields: verr.Invalid,
			RequestID:     reqID,
		})
	case errors.As(err, &nferr):
		WriteJSON(w, http.StatusNotFound, jsonError{Code: CodeNotFound, Message: nferr.Error(), RequestID: reqID})
	case errors.As(err, &invalid):
		raw := invalid.RawText
		WriteJSON(w, http.StatusInternalServerError, jsonError{
			Code:        CodeIAResponseInvalid,
			Message:     "the generative model returned a response in an invalid format",
			RawResponse: &raw,
			RequestID:   reqID,
		})
	default:
		message := "internal error"
		switch {
		case errors.As(err, &storeErr):
			message = "product store failure"
		case errors.As(err, &callErr):
			message = "failed to process the recommendation"
		}
		obs.Logger.Error("request_failed", "request_id", reqID, "path", r.URL.Path, "error", err)
		WriteJSON(w, http.StatusInternalServerError, jsonError{
			Code:         CodeInternalError,
			Message:      message,
			ErrorDetails: err.Error(),
			RequestID:    reqID,
		})
	}
}
