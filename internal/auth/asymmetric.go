// ABOUTME: RSA key pair authenticator using RS256
// ABOUTME: Public key comes from the JWKS endpoint, private key from a local PEM file

package auth

import (
	"context"
	"crypto/rsa"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

var asymmetricMethod = jwt.SigningMethodRS256

// Asymmetric signs with a local RSA private key and verifies with the public
// key published by the key-set endpoint. Unusable key material is remembered
// at construction and reported per call.
type Asymmetric struct {
	publicKey    *rsa.PublicKey
	publicKeyErr error

	privateKey    *rsa.PrivateKey
	privateKeyErr error
}

// NewAsymmetric fetches the key set from jwkURI and reads the private key at
// privateKeyPath. Fetch failures wrap ErrJWKSURL or ErrJWKSParse and an
// unreadable key file wraps ErrPrivateKeyRead.
func NewAsymmetric(ctx context.Context, client *http.Client, jwkURI, privateKeyPath string, logger *slog.Logger) (*Asymmetric, error) {
	if logger == nil {
		logger = slog.Default()
	}

	n, e, err := FetchKeySet(ctx, client, jwkURI)
	if err != nil {
		return nil, err
	}
	logger.Info("got jwks", "uri", jwkURI)

	pem, err := ReadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}

	a := NewAsymmetricFromKeys(n, e, pem)
	if a.publicKeyErr != nil {
		logger.Warn("jwks key is unusable, every verification will fail", "error", a.publicKeyErr)
	}
	if a.privateKeyErr != nil {
		logger.Warn("private key is unusable, every signing call will fail", "error", a.privateKeyErr)
	}
	return a, nil
}

// NewAsymmetricFromKeys builds an Asymmetric authenticator from base64url RSA
// components n and e and a PEM-encoded private key.
func NewAsymmetricFromKeys(n, e string, privateKeyPEM []byte) *Asymmetric {
	a := &Asymmetric{}
	a.publicKey, a.publicKeyErr = rsaPublicKeyFromComponents(n, e)
	a.privateKey, a.privateKeyErr = jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	return a
}

// Sign implements Authenticator.
func (a *Asymmetric) Sign(claims Claims) (string, error) {
	if a.privateKeyErr != nil {
		return "", cryptoError(a.privateKeyErr)
	}
	return signToken(asymmetricMethod, a.privateKey, claims)
}

// Verify implements Authenticator.
func (a *Asymmetric) Verify(token string, audience []string) (*Claims, error) {
	if a.publicKeyErr != nil {
		return nil, ErrInvalidKey
	}
	return parseToken(asymmetricMethod, a.publicKey, token, audience)
}

// Algorithm implements Authenticator.
func (a *Asymmetric) Algorithm() string { return asymmetricMethod.Alg() }

func (a *Asymmetric) String() string { return "auth.Asymmetric{alg=RS256}" }
