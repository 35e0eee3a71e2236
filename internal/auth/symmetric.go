// ABOUTME: Pre-shared secret authenticator using HS512
// ABOUTME: The secret never leaves the struct and is redacted from formatting

package auth

import "github.com/golang-jwt/jwt/v5"

var symmetricMethod = jwt.SigningMethodHS512

// Symmetric signs and verifies HS512 tokens with one shared secret.
type Symmetric struct {
	secret []byte
}

// NewSymmetric creates a Symmetric authenticator. The secret is copied.
func NewSymmetric(secret []byte) *Symmetric {
	return &Symmetric{secret: append([]byte(nil), secret...)}
}

// Sign implements Authenticator.
func (s *Symmetric) Sign(claims Claims) (string, error) {
	return signToken(symmetricMethod, s.secret, claims)
}

// Verify implements Authenticator.
func (s *Symmetric) Verify(token string, audience []string) (*Claims, error) {
	return parseToken(symmetricMethod, s.secret, token, audience)
}

// Algorithm implements Authenticator.
func (s *Symmetric) Algorithm() string { return symmetricMethod.Alg() }

func (s *Symmetric) String() string { return "auth.Symmetric{alg=HS512}" }
