// Package auth provides token issuance and verification for ponga-gateway.
//
// # Authentication Modes
//
// Exactly one Authenticator is built per process, selected by auth.mode
// (AUTH_MODE):
//
//   - symmetric: HS512 tokens signed and verified with the shared secret
//     from jwt_secret (JWT_SECRET).
//
//   - asymmetric: RS256 tokens. The public key is fetched once at startup
//     from jwk_uri (JWK_URI), using only the first entry of the key set.
//     The private key is read from private_key_path (PRIVATE_KEY_PATH).
//
// Construction errors (ErrJWKSURL, ErrJWKSParse, ErrPrivateKeyRead,
// ErrMissingConfig) are fatal: the server must not start without a working
// Authenticator.
//
// # Tokens
//
//	authn, err := auth.New(ctx, auth.Options{Mode: auth.ModeSymmetric, Secret: secret})
//	token, err := authn.Sign(auth.NewClaims("user-1", "ponga", time.Hour, time.Now()))
//	claims, err := authn.Verify(token, []string{auth.ServiceAudience})
//
// Verification fails with ErrExpiredToken when exp is not after the current
// time, ErrInvalidKey when the published key cannot be used, and *CryptoError
// for everything else (bad signature, wrong algorithm, wrong audience,
// malformed input).
//
// # HTTP
//
// RequireClaims wraps handlers that need an identity. Requests must carry
// "Authorization: Bearer <token>" with an audience containing "ponga".
// Rejections are written through the httperr package:
//
//	no_auth, invalid_auth_header, no_bearer_specified  400
//	bad_token, invalid_key                             400
//	expired_token                                      401
//
// Handlers read the verified identity with FromContext or MustFromContext.
package auth
