package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code, a human-readable message and,
// for validation failures, the messages for each offending field.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message (e.g. "trip not found") because the handler
// is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody renders every field message of a domain validation failure.
func validationBody(err error) ErrorResponse {
	body := errorBody("validation_error", "the given data was invalid")
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error.Fields = verr.Fields
	}
	return body
}

// requestBody returns an ErrorResponse for a body rejected before reaching
// the service layer (e.g. malformed JSON).
func requestBody(message string) ErrorResponse {
	return errorBody("validation_error", message)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a response. Validation and not-found
// errors are the caller's fault and are rendered as such; anything else is
// logged and reported as a 500 without leaking details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrUnknownCaller):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "the token does not belong to an existing user"))
	default:
		s.log.ErrorContext(r.Context(), "request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// decodeBody decodes the JSON request body into dst. An empty body leaves dst
// untouched so that the service reports each required field individually.
// The body must hold exactly one JSON value.
// It writes the error response itself and returns false when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		err = dec.Decode(&struct{}{})
		if errors.Is(err, io.EOF) {
			return true
		}
		if err == nil {
			err = errTrailingData
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", "request body is too large"))
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is invalid"))
	return false
}

var errTrailingData = errors.New("request body must contain a single JSON value")

// flexString accepts a JSON string, number, or null. Numeric fields such as
// price and quantity are kept as text so the service can validate them and
// report a field-level message instead of a decode failure.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
