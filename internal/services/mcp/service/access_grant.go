package service

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
)

// accessGrantEnv holds raw env values before post-parse validation.
type accessGrantEnv struct {
	Issuer    string `env:"UCP_SHOP_ACCESS_GRANT_ISSUER"`
	Audience  string `env:"UCP_SHOP_ACCESS_GRANT_AUDIENCE"`
	PublicKey string `env:"UCP_SHOP_ACCESS_GRANT_PUBLIC_KEY"`
}

// AccessGrantConfig defines how HTTP access grants are verified. Grants are
// short-lived Ed25519-signed JWTs minted by an external identity gateway.
type AccessGrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether a verifier has been configured.
func (cfg AccessGrantConfig) Enabled() bool {
	return len(cfg.Key) == ed25519.PublicKeySize
}

// AccessGrantClaims captures validated access grant claims.
type AccessGrantClaims struct {
	Issuer    string
	Audience  []string
	Subject   string
	ExpiresAt time.Time
	JWTID     string
}

type accessGrantClaims struct {
	jwt.RegisteredClaims
}

// LoadAccessGrantConfigFromEnv reads access grant verification configuration.
// An entirely unset environment disables grant verification; a partially set
// one is an error.
func LoadAccessGrantConfigFromEnv(now func() time.Time) (AccessGrantConfig, error) {
	var raw accessGrantEnv
	if err := env.Parse(&raw); err != nil {
		return AccessGrantConfig{}, fmt.Errorf("parse access grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return AccessGrantConfig{}, nil
	}
	if issuer == "" {
		return AccessGrantConfig{}, fmt.Errorf("UCP_SHOP_ACCESS_GRANT_ISSUER is required")
	}
	if audience == "" {
		return AccessGrantConfig{}, fmt.Errorf("UCP_SHOP_ACCESS_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return AccessGrantConfig{}, fmt.Errorf("UCP_SHOP_ACCESS_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return AccessGrantConfig{}, fmt.Errorf("decode access grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return AccessGrantConfig{}, fmt.Errorf("access grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return AccessGrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateAccessGrant verifies an access grant token against the configured
// issuer, audience, and signing key.
func ValidateAccessGrant(grant string, cfg AccessGrantConfig) (AccessGrantClaims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return AccessGrantClaims{}, errors.New("access grant is required")
	}
	if !cfg.Enabled() {
		return AccessGrantClaims{}, errors.New("access grant verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var parsed accessGrantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return AccessGrantClaims{}, fmt.Errorf("parse access grant: %w", err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return AccessGrantClaims{}, errors.New("access grant issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return AccessGrantClaims{}, errors.New("access grant audience mismatch")
	}
	if parsed.ExpiresAt == nil {
		return AccessGrantClaims{}, errors.New("access grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return AccessGrantClaims{}, errors.New("access grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return AccessGrantClaims{}, errors.New("access grant not active yet")
	}

	claims := AccessGrantClaims{
		Issuer:    parsed.Issuer,
		Audience:  parsed.Audience,
		Subject:   parsed.Subject,
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}
	return claims, nil
}

func audienceContains(audience jwt.ClaimStrings, expected string) bool {
	for _, entry := range audience {
		if entry == expected {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(value)
}
