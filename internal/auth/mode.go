// ABOUTME: Authentication mode switch selecting the signing strategy at startup
// ABOUTME: Only "symmetric" (HS512) and "asymmetric" (RS256) are accepted

package auth

import "fmt"

// Mode selects which Authenticator variant the process builds.
type Mode string

const (
	ModeSymmetric  Mode = "symmetric"
	ModeAsymmetric Mode = "asymmetric"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSymmetric, ModeAsymmetric:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid auth mode %q: only 'asymmetric' and 'symmetric' are allowed", s)
	}
}

func (m Mode) String() string { return string(m) }
