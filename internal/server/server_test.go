// ABOUTME: Tests for the ponga HTTP API routes and lifecycle
// ABOUTME: Uses a symmetric authenticator and httptest recorders

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/ponga-gateway/internal/auth"
	"github.com/2389/ponga-gateway/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, auth.Authenticator) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.Mode = auth.ModeSymmetric
	cfg.Auth.JWTSecret = "s3cr3t"
	cfg.Server.HTTPAddr = "127.0.0.1:0"

	authn := auth.NewSymmetric([]byte(cfg.Auth.JWTSecret))
	s, err := New(cfg, authn, testLogger(), "1.2.3")
	require.NoError(t, err)
	return s, authn
}

func signFor(t *testing.T, authn auth.Authenticator, sub string, ttl time.Duration) string {
	t.Helper()
	c := auth.NewClaims(sub, "ponga", ttl, time.Now())
	c.Audience = []string{auth.ServiceAudience}
	token, err := authn.Sign(c)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, auth.NewSymmetric([]byte("x")), nil, "")
	assert.Error(t, err)

	_, err = New(config.Default(), nil, nil, "")
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"version":"1.2.3"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMe(t *testing.T) {
	s, authn := newTestServer(t)
	token := signFor(t, authn, "u1", time.Hour)

	rec := do(t, s.Handler(), http.MethodGet, "/api/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Claims)
	assert.Equal(t, "u1", resp.Claims.Subject)
	assert.Equal(t, "ponga", resp.Claims.Issuer)
	assert.Equal(t, []string{auth.ServiceAudience}, resp.Claims.Audience)
}

func TestMe_Rejections(t *testing.T) {
	s, authn := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"no_auth"}`, rec.Body.String())

	expired := signFor(t, authn, "u1", -10*time.Second)
	rec = do(t, h, http.MethodGet, "/api/me", expired, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"expired_token"}`, rec.Body.String())

	other := auth.NewSymmetric([]byte("different"))
	forged := signFor(t, other, "u1", time.Hour)
	rec = do(t, h, http.MethodGet, "/api/me", forged, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"bad_token"`)
}

func TestRefresh_DefaultTTL(t *testing.T) {
	s, authn := newTestServer(t)
	fixed := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return fixed }

	token := signFor(t, authn, "u1", time.Minute)
	rec := do(t, s.Handler(), http.MethodPost, "/api/token/refresh", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, fixed.Add(config.DefaultTokenTTL).Unix(), resp.ExpiresAt)
}

func TestRefresh_VerifiesAndKeepsAudience(t *testing.T) {
	s, authn := newTestServer(t)

	token := signFor(t, authn, "u1", time.Minute)
	rec := do(t, s.Handler(), http.MethodPost, "/api/token/refresh", token, `{"ttl_seconds":120}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := authn.Verify(resp.Token, []string{auth.ServiceAudience})
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, []string{auth.ServiceAudience}, claims.Audience)
	assert.Equal(t, int64(120), claims.ExpiresAt-claims.IssuedAt)
}

func TestRefresh_InvalidBodies(t *testing.T) {
	s, authn := newTestServer(t)
	token := signFor(t, authn, "u1", time.Minute)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "zero ttl", body: `{"ttl_seconds":0}`, want: `{"success":false,"error":"invalid_fields","fields":["ttl_seconds"]}`},
		{name: "negative ttl", body: `{"ttl_seconds":-1}`, want: `{"success":false,"error":"invalid_fields","fields":["ttl_seconds"]}`},
		{name: "above max", body: `{"ttl_seconds":90000}`, want: `{"success":false,"error":"invalid_fields","fields":["ttl_seconds"]}`},
		{name: "duration overflow", body: `{"ttl_seconds":9223372037}`, want: `{"success":false,"error":"invalid_fields","fields":["ttl_seconds"]}`},
		{name: "malformed", body: `{"ttl_seconds":`, want: `{"success":false,"error":"invalid_body"}`},
		{name: "unknown field", body: `{"sub":"admin"}`, want: `{"success":false,"error":"invalid_body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/api/token/refresh", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

type failingSigner struct {
	auth.Authenticator
}

func (failingSigner) Sign(auth.Claims) (string, error) {
	return "", &auth.CryptoError{Detail: "no private key"}
}

func TestRefresh_SignFailure(t *testing.T) {
	_, authn := newTestServer(t)
	cfg := config.Default()
	s, err := New(cfg, failingSigner{authn}, testLogger(), "")
	require.NoError(t, err)

	token := signFor(t, authn, "u1", time.Minute)
	rec := do(t, s.Handler(), http.MethodPost, "/api/token/refresh", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"fatal_error"}`, rec.Body.String())
}

func TestRefresh_WrongMethod(t *testing.T) {
	s, authn := newTestServer(t)
	token := signFor(t, authn, "u1", time.Minute)

	rec := do(t, s.Handler(), http.MethodGet, "/api/token/refresh", token, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/health", "", "")
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Server.HTTPAddr = "256.0.0.1:bad"

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
	assert.Contains(t, err.Error(), "listening on HTTP address")
}
