// ABOUTME: Authenticator capability shared by every request handler
// ABOUTME: New selects the symmetric or asymmetric variant once at startup

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Authenticator signs claims into tokens and verifies tokens back into claims.
// Implementations are immutable after construction and safe for concurrent use.
type Authenticator interface {
	// Sign serializes claims and signs them with the variant's key.
	Sign(claims Claims) (string, error)
	// Verify checks signature, expiration and that the token audience
	// intersects audience. It returns ErrExpiredToken, ErrInvalidKey or a
	// *CryptoError on failure.
	Verify(token string, audience []string) (*Claims, error)
	// Algorithm returns the JWS alg identifier this authenticator uses.
	Algorithm() string
}

// Options carries everything New needs to build an Authenticator.
type Options struct {
	Mode Mode

	// Symmetric
	Secret string

	// Asymmetric
	JWKURI         string
	PrivateKeyPath string
	HTTPClient     *http.Client

	Logger *slog.Logger
}

// New builds the Authenticator selected by opts.Mode. For ModeAsymmetric it
// blocks on the key-set fetch. Any returned error must abort startup.
func New(ctx context.Context, opts Options) (Authenticator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Mode {
	case ModeSymmetric:
		if opts.Secret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET is not defined", ErrMissingConfig)
		}
		logger.Info("authenticator ready", "mode", opts.Mode, "alg", symmetricMethod.Alg())
		return NewSymmetric([]byte(opts.Secret)), nil

	case ModeAsymmetric:
		if opts.JWKURI == "" {
			return nil, fmt.Errorf("%w: JWK_URI is not defined", ErrMissingConfig)
		}
		if opts.PrivateKeyPath == "" {
			return nil, fmt.Errorf("%w: PRIVATE_KEY_PATH is not defined", ErrMissingConfig)
		}
		a, err := NewAsymmetric(ctx, opts.HTTPClient, opts.JWKURI, opts.PrivateKeyPath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("authenticator ready", "mode", opts.Mode, "alg", asymmetricMethod.Alg())
		return a, nil

	default:
		_, err := ParseMode(string(opts.Mode))
		return nil, err
	}
}
