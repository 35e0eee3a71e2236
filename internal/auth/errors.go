// ABOUTME: Error kinds for token signing/verification and authenticator construction
// ABOUTME: Token errors are recovered per request; init errors abort startup

package auth

import "errors"

// Token errors
var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrExpiredToken = errors.New("token expired")
)

// Initialization errors. All of them are fatal to process startup.
var (
	ErrJWKSURL        = errors.New("error while querying the jwks uri")
	ErrJWKSParse      = errors.New("error while parsing the jwk object")
	ErrPrivateKeyRead = errors.New("cannot read private key")
	ErrMissingConfig  = errors.New("missing auth configuration")
)

// CryptoError reports a token that could not be signed, parsed or verified.
type CryptoError struct {
	Detail string
}

func (e *CryptoError) Error() string {
	return "bad token: " + e.Detail
}

func cryptoError(err error) *CryptoError {
	return &CryptoError{Detail: err.Error()}
}
