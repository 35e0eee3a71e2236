// ABOUTME: Claim set carried by every token this service signs or accepts
// ABOUTME: Converts between the domain Claims and golang-jwt registered claims

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a ponga token. Timestamps are unix seconds.
type Claims struct {
	ExpiresAt int64    `json:"exp"`
	IssuedAt  int64    `json:"iat"`
	Issuer    string   `json:"iss"`
	Subject   string   `json:"sub"`
	Audience  []string `json:"aud,omitempty"`
}

// NewClaims builds claims for subject valid for ttl starting at now.
func NewClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		ExpiresAt: now.Add(ttl).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    issuer,
		Subject:   subject,
	}
}

// registered converts c into the wire form. An empty audience defaults to the issuer.
func (c Claims) registered() jwt.RegisteredClaims {
	aud := c.Audience
	if len(aud) == 0 {
		aud = []string{c.Issuer}
	}
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)),
		IssuedAt:  jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)),
		Issuer:    c.Issuer,
		Subject:   c.Subject,
		Audience:  append(jwt.ClaimStrings(nil), aud...),
	}
}

func claimsFromRegistered(rc *jwt.RegisteredClaims) *Claims {
	c := &Claims{
		Issuer:   rc.Issuer,
		Subject:  rc.Subject,
		Audience: append([]string(nil), rc.Audience...),
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Unix()
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Unix()
	}
	return c
}
