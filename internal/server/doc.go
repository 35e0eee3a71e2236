// Package server exposes ponga-gateway over HTTP.
//
// # Routes
//
//	GET  /                    {"success":true,"version":"..."}
//	GET  /health              OK
//	GET  /api/me              bearer; {"success":true,"claims":{...}}
//	POST /api/token/refresh   bearer; optional {"ttl_seconds":N}
//
// Bearer routes go through auth.RequireClaims with the "ponga" audience.
// Every response carries X-Request-ID, taken from the request when present.
//
// # Lifecycle
//
// Run blocks until its context is canceled, then shuts down gracefully with a
// five second deadline.
package server
