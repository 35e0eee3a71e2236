// ABOUTME: Shared fixtures for auth tests
// ABOUTME: RSA keys, JWKS documents and a fake key-set endpoint

package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
)

var testSecret = []byte("s3cr3t")

// rsaFixture bundles one RSA key in every form the tests need.
type rsaFixture struct {
	key  *rsa.PrivateKey
	n    string
	e    string
	pem  []byte
	jwks []byte
}

func genRSA(t *testing.T) *rsaFixture {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	jwk := jose.JSONWebKey{Key: &pk.PublicKey, KeyID: "test-key", Algorithm: "RS256", Use: "sig"}
	set := struct {
		Keys []jose.JSONWebKey `json:"keys"`
	}{Keys: []jose.JSONWebKey{jwk}}
	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return &rsaFixture{
		key:  pk,
		n:    base64.RawURLEncoding.EncodeToString(pk.N.Bytes()),
		e:    "AQAB",
		pem:  pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(pk)}),
		jwks: b,
	}
}

// writeKeyFile stores pemBytes in a temp file and returns its path.
func writeKeyFile(t *testing.T, pemBytes []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "private.pem")
	if err := os.WriteFile(path, pemBytes, 0600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}

// newKeySetServer serves body with status on every request.
func newKeySetServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClaims(now time.Time, ttl time.Duration) Claims {
	return Claims{
		Subject:   "u1",
		Issuer:    ServiceAudience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

// flipSignature changes one character in the middle of the signature segment.
func flipSignature(token string) string {
	lastDot := strings.LastIndex(token, ".")
	b := []byte(token)
	i := lastDot + 1 + (len(token)-lastDot-1)/2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
