// ABOUTME: Token codec: signs Claims into compact JWS and verifies them back
// ABOUTME: Pins each call to exactly one algorithm and enforces exp and aud

package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// signToken serializes claims and signs them with method and key.
// The header carries only alg and typ.
func signToken(method jwt.SigningMethod, key any, claims Claims) (string, error) {
	token := jwt.NewWithClaims(method, claims.registered())
	s, err := token.SignedString(key)
	if err != nil {
		return "", cryptoError(err)
	}
	return s, nil
}

// parseToken verifies tokenString with method and key, then checks that its
// audience intersects audience. Expiration is strict: exp must be after now.
func parseToken(method jwt.SigningMethod, key any, tokenString string, audience []string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var rc jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &rc, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, cryptoError(err)
	}

	if !audIntersects(rc.Audience, audience) {
		return nil, &CryptoError{Detail: "token has invalid audience"}
	}

	return claimsFromRegistered(&rc), nil
}

func audIntersects(aud jwt.ClaimStrings, wants []string) bool {
	wantSet := make(map[string]struct{}, len(wants))
	for _, w := range wants {
		wantSet[w] = struct{}{}
	}
	for _, a := range aud {
		if _, ok := wantSet[a]; ok {
			return true
		}
	}
	return false
}
