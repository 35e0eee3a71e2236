// ABOUTME: Key provisioning for the asymmetric authenticator
// ABOUTME: One-shot JWKS fetch (first key only), private key file read, n/e -> RSA key

package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	jose "github.com/go-jose/go-jose/v4"
)

// KeySetFetchTimeout bounds the startup key-set request.
const KeySetFetchTimeout = 2 * time.Second

// maxKeySetBytes caps the key-set response body.
const maxKeySetBytes = 1 << 20

// keySetResponse is the subset of a JWKS document this service reads.
type keySetResponse struct {
	Keys []keySetEntry `json:"keys"`
}

type keySetEntry struct {
	N string `json:"n"`
	E string `json:"e"`
}

// NewKeySetClient returns the HTTP client used for the startup key-set fetch.
func NewKeySetClient() *http.Client {
	return &http.Client{Timeout: KeySetFetchTimeout}
}

// FetchKeySet performs a single GET against uri and returns the modulus and
// exponent of the first key. Other keys and fields (including kid) are ignored.
// Transport failures and non-2xx responses wrap ErrJWKSURL; bodies that do not
// decode into {"keys":[{"n","e"}]} wrap ErrJWKSParse.
func FetchKeySet(ctx context.Context, client *http.Client, uri string) (n, e string, err error) {
	if client == nil {
		client = NewKeySetClient()
	}
	ctx, cancel := context.WithTimeout(ctx, KeySetFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrJWKSURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrJWKSURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("%w: endpoint returned status %d", ErrJWKSURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return "", "", fmt.Errorf("%w: reading body: %v", ErrJWKSURL, err)
	}

	var ks keySetResponse
	if err := json.Unmarshal(body, &ks); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrJWKSParse, err)
	}
	if len(ks.Keys) == 0 {
		return "", "", fmt.Errorf("%w: key set has no keys", ErrJWKSParse)
	}
	return ks.Keys[0].N, ks.Keys[0].E, nil
}

// ReadPrivateKey reads the PEM-encoded private key at path.
func ReadPrivateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrivateKeyRead, err)
	}
	return b, nil
}

// rsaPublicKeyFromComponents builds an RSA public key from base64url n and e.
func rsaPublicKeyFromComponents(n, e string) (*rsa.PublicKey, error) {
	raw, err := json.Marshal(map[string]string{"kty": "RSA", "n": n, "e": e})
	if err != nil {
		return nil, err
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	pub, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected key type %T", jwk.Key)
	}
	if pub.N == nil || pub.N.Sign() <= 0 || pub.E < 2 {
		return nil, errors.New("rsa modulus or exponent out of range")
	}
	return pub, nil
}
