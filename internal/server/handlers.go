// ABOUTME: Route handlers for the ponga HTTP API
// ABOUTME: Index, health, identity lookup and token refresh

package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/2389/ponga-gateway/internal/auth"
	"github.com/2389/ponga-gateway/internal/httperr"
)

// IndexResponse is the JSON response for GET /.
type IndexResponse struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
}

// MeResponse is the JSON response for GET /api/me.
type MeResponse struct {
	Success bool         `json:"success"`
	Claims  *auth.Claims `json:"claims"`
}

// RefreshRequest is the optional JSON body for POST /api/token/refresh.
type RefreshRequest struct {
	TTLSeconds *int `json:"ttl_seconds,omitempty"`

	maxTTL time.Duration
}

// Validate reports ttl_seconds when it falls outside 1..maxTTL.
func (r *RefreshRequest) Validate() []string {
	if r.TTLSeconds == nil {
		return nil
	}
	// TTLSeconds * time.Second can overflow int64; compare in seconds.
	if *r.TTLSeconds < 1 || int64(*r.TTLSeconds) > int64(r.maxTTL/time.Second) {
		return []string{"ttl_seconds"}
	}
	return nil
}

// RefreshResponse is the JSON response for POST /api/token/refresh.
type RefreshResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleIndex reports the running version.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{Success: true, Version: s.version})
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleMe echoes the verified claims of the caller.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, MeResponse{Success: true, Claims: claims})
}

// handleRefresh issues a fresh token for the caller's subject and audience.
// Without ttl_seconds the configured token_ttl is used.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustFromContext(r.Context())

	req := RefreshRequest{maxTTL: s.config.Auth.MaxTokenTTL}
	if herr := httperr.DecodeJSON(r, &req); herr != nil {
		httperr.Write(w, herr)
		return
	}

	ttl := s.config.Auth.TokenTTL
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	fresh := auth.NewClaims(claims.Subject, s.config.Auth.Issuer, ttl, s.now())
	fresh.Audience = claims.Audience

	token, err := s.authn.Sign(fresh)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "signing refreshed token", "error", err, "sub", claims.Subject)
		httperr.Write(w, httperr.Fatal())
		return
	}

	s.logger.InfoContext(r.Context(), "token refreshed", "sub", claims.Subject, "ttl", ttl)
	writeJSON(w, http.StatusOK, RefreshResponse{Success: true, Token: token, ExpiresAt: fresh.ExpiresAt})
}
