// ABOUTME: JSON request body decoding with field validation
// ABOUTME: Maps decode failures to invalid_body and validation failures to invalid_fields

package httperr

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies accepted by DecodeJSON.
const maxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check their own fields.
// Validate returns the names of invalid fields, or nil when the body is valid.
type Validator interface {
	Validate() []string
}

// DecodeJSON decodes the request body into v and validates it.
// An empty body leaves v untouched and is only rejected if validation fails.
func DecodeJSON(r *http.Request, v Validator) *Error {
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return InvalidBody()
		}
	}
	if fields := v.Validate(); len(fields) > 0 {
		return InvalidFields(fields...)
	}
	return nil
}
