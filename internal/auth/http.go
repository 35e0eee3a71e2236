// ABOUTME: Bearer token extraction from the Authorization header
// ABOUTME: Verifies against the service audience and maps failures to HTTP errors

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/ponga-gateway/internal/httperr"
)

// ServiceAudience is the audience every inbound token must carry.
const ServiceAudience = "ponga"

const bearerPrefix = "Bearer "

// extractBearerToken returns the token from an Authorization header, or a
// rejection describing why the header is unusable.
func extractBearerToken(h http.Header) (string, *httperr.Error) {
	values := h.Values("Authorization")
	if len(values) == 0 {
		return "", httperr.BadRequest(httperr.CodeNoAuth)
	}
	value := values[0]
	if !isVisibleASCII(value) {
		return "", httperr.BadRequest(httperr.CodeInvalidAuthHeader)
	}
	token, ok := strings.CutPrefix(value, bearerPrefix)
	if !ok || token == "" {
		return "", httperr.BadRequest(httperr.CodeNoBearer)
	}
	return token, nil
}

// isVisibleASCII reports whether s holds only visible ASCII, spaces and tabs.
func isVisibleASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\t' && (c < 0x20 || c > 0x7e) {
			return false
		}
	}
	return true
}

// ExtractClaims locates the bearer token in h and verifies it against
// ServiceAudience.
func ExtractClaims(h http.Header, authn Authenticator) (*Claims, *httperr.Error) {
	token, herr := extractBearerToken(h)
	if herr != nil {
		return nil, herr
	}
	claims, err := authn.Verify(token, []string{ServiceAudience})
	if err != nil {
		return nil, TokenHTTPError(err)
	}
	return claims, nil
}

// TokenHTTPError maps a token error onto its boundary response.
func TokenHTTPError(err error) *httperr.Error {
	var cerr *CryptoError
	switch {
	case errors.Is(err, ErrExpiredToken):
		return httperr.New(http.StatusUnauthorized, httperr.CodeExpiredToken)
	case errors.Is(err, ErrInvalidKey):
		return httperr.BadRequest(httperr.CodeInvalidKey)
	case errors.As(err, &cerr):
		return httperr.BadRequest(httperr.CodeBadToken).WithDetail(cerr.Detail)
	default:
		return httperr.Fatal()
	}
}

// RequireClaims creates an HTTP middleware that rejects requests without a
// valid bearer token and adds the verified Claims to the request context.
func RequireClaims(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, herr := ExtractClaims(r.Header, authn)
			if herr != nil {
				logger.DebugContext(r.Context(), "request rejected", "status", herr.Status, "error", herr.Code)
				httperr.Write(w, herr)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
