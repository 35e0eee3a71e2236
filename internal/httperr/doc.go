// Package httperr writes client-facing error responses.
//
// # Body Shape
//
// Every rejection is a JSON object with a stable machine code:
//
//	{"success":false,"error":"no_bearer_specified"}
//
// Two optional keys may follow. bad_token carries the verifier's message in
// "detail" rather than appending it to the code, so "error" always matches one
// of the Code constants. invalid_fields lists the failing fields, sorted:
//
//	{"success":false,"error":"bad_token","detail":"token signature is invalid"}
//	{"success":false,"error":"invalid_fields","fields":["ttl_seconds"]}
//
// # Codes
//
//	no_auth, invalid_auth_header, no_bearer_specified  400
//	bad_token, invalid_key                             400
//	invalid_body, invalid_fields                       400
//	expired_token                                      401
//	fatal_error                                        500
package httperr
