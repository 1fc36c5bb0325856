// Package identity verifies bearer tokens issued by the external identity
// provider and extracts the subject they were issued for.
package identity

import (
	"context"
	"errors"
	"fmt"

	"autonation/internal/config"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry,
	// issuer or audience checks.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingSubject is returned for otherwise valid tokens without a sub claim.
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims is the verified identity carried by a request.
type Claims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// tokenClaims is the claim set read from either token format. Providers
// disagree on naming, so both the OIDC standard and the short forms are read.
type tokenClaims struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

func (tc tokenClaims) toClaims() (*Claims, error) {
	if tc.Subject == "" {
		return nil, ErrMissingSubject
	}
	claims := &Claims{
		Subject:   tc.Subject,
		Email:     tc.Email,
		FirstName: tc.GivenName,
		LastName:  tc.FamilyName,
	}
	if claims.FirstName == "" {
		claims.FirstName = tc.FirstName
	}
	if claims.LastName == "" {
		claims.LastName = tc.LastName
	}
	return claims, nil
}

// NewVerifier builds the verifier selected by cfg.AuthMode.
func NewVerifier(ctx context.Context, cfg *config.Config) (Verifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeOIDC:
		return NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
	case config.AuthModeHMAC:
		return NewHMACVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}
