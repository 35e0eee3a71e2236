// ABOUTME: Boundary-facing error responses shared by every HTTP handler
// ABOUTME: Writes {"success":false,"error":code} bodies with stable machine codes

package httperr

import (
	"encoding/json"
	"net/http"
	"sort"
)

// Stable error codes exposed to clients.
const (
	CodeNoAuth            = "no_auth"
	CodeInvalidAuthHeader = "invalid_auth_header"
	CodeNoBearer          = "no_bearer_specified"
	CodeBadToken          = "bad_token"
	CodeInvalidKey        = "invalid_key"
	CodeExpiredToken      = "expired_token"
	CodeInvalidBody       = "invalid_body"
	CodeInvalidFields     = "invalid_fields"
	CodeFatal             = "fatal_error"
)

// Error is a structured rejection carrying an HTTP status and a stable code.
type Error struct {
	Status int
	Code   string
	Detail string
	Fields []string
}

// New returns an Error with the given status and code.
func New(status int, code string) *Error {
	return &Error{Status: status, Code: code}
}

// BadRequest returns a 400 Error with the given code.
func BadRequest(code string) *Error {
	return New(http.StatusBadRequest, code)
}

// InvalidBody is returned when a request body is not valid JSON for the target type.
func InvalidBody() *Error {
	return BadRequest(CodeInvalidBody)
}

// InvalidFields is returned when a decoded body fails validation.
func InvalidFields(fields ...string) *Error {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidFields, Fields: sorted}
}

// Fatal is returned for unclassified internal failures.
func Fatal() *Error {
	return New(http.StatusInternalServerError, CodeFatal)
}

// WithDetail returns a copy of e carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	dup := *e
	dup.Detail = detail
	return &dup
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Code + ": " + e.Detail
	}
	return e.Code
}

type body struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Detail  string   `json:"detail,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Write sends e as a JSON response.
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(body{
		Success: false,
		Error:   e.Code,
		Detail:  e.Detail,
		Fields:  e.Fields,
	})
}
