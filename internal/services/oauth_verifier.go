package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"

	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	appleJWKSURL  = "https://appleid.apple.com/auth/keys"
)

var ErrInvalidIdentityToken = errors.New("invalid identity token")

// IdentityClaims is what a verified provider identity token tells us.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*IdentityClaims, error)
}

// JWKSVerifier checks RS256 identity tokens against a provider's published
// keys, issuer and the configured client ids.
type JWKSVerifier struct {
	provider  string
	issuers   []string
	audiences []string
	keyFunc   jwt.Keyfunc
	jwks      *keyfunc.JWKS
}

func NewGoogleVerifier(clientIDs []string) (*JWKSVerifier, error) {
	return newRemoteVerifier(ProviderGoogle, googleJWKSURL,
		[]string{"accounts.google.com", "https://accounts.google.com"}, clientIDs)
}

func NewAppleVerifier(clientIDs []string) (*JWKSVerifier, error) {
	return newRemoteVerifier(ProviderApple, appleJWKSURL,
		[]string{"https://appleid.apple.com"}, clientIDs)
}

func newRemoteVerifier(provider, url string, issuers, audiences []string) (*JWKSVerifier, error) {
	if len(audiences) == 0 {
		return nil, fmt.Errorf("%s: no client ids configured", provider)
	}

	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Error("jwks refresh failed", "provider", provider, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s JWKS: %w", provider, err)
	}

	v := NewJWKSVerifier(provider, issuers, audiences, jwks.Keyfunc)
	v.jwks = jwks
	return v, nil
}

// NewJWKSVerifier builds a verifier around any key lookup.
func NewJWKSVerifier(provider string, issuers, audiences []string, keyFunc jwt.Keyfunc) *JWKSVerifier {
	return &JWKSVerifier{
		provider:  provider,
		issuers:   issuers,
		audiences: audiences,
		keyFunc:   keyFunc,
	}
}

func (v *JWKSVerifier) Verify(_ context.Context, rawToken string) (*IdentityClaims, error) {
	token, err := jwt.Parse(rawToken, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidIdentityToken
	}

	iss, _ := claims.GetIssuer()
	if !slices.Contains(v.issuers, iss) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIdentityToken, iss)
	}

	aud, _ := claims.GetAudience()
	if !slices.ContainsFunc(aud, func(a string) bool { return slices.Contains(v.audiences, a) }) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidIdentityToken)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidIdentityToken)
	}

	out := &IdentityClaims{Subject: sub}
	out.Email, _ = claims["email"].(string)
	out.Name, _ = claims["name"].(string)
	out.Picture, _ = claims["picture"].(string)
	// Apple sends email_verified as a string
	switch ev := claims["email_verified"].(type) {
	case bool:
		out.EmailVerified = ev
	case string:
		out.EmailVerified = ev == "true"
	}
	return out, nil
}

// Close stops the background key refresh.
func (v *JWKSVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
