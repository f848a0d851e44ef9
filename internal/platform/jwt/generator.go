// Package jwtmw issues and verifies the signed session tokens carried in the
// auth cookie, and provides the Gin middleware guarding authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned when the generator was built without a signing
// secret. Token operations fail closed rather than run unsigned.
var ErrMissingSecret = errors.New("jwt signing secret is not configured")

// ErrInvalidToken is returned when a token fails signature, format or expiry
// checks during verification.
var ErrInvalidToken = errors.New("invalid token")

// Generator defines the interface for session token issuance.
type Generator interface {
	// IssueToken creates a signed session token for the given user.
	IssueToken(userID string) (string, error)
}

// Verifier defines the interface for session token verification.
type Verifier interface {
	// VerifyToken checks signature and expiry and returns the embedded user ID.
	VerifyToken(token string) (string, error)
}

// generator implements Generator and Verifier with HMAC-SHA256.
type generator struct {
	secret     []byte
	expiration time.Duration
}

// NewGenerator creates a new token generator with the provided secret and
// validity window. An empty secret is allowed here so the caller can decide
// when to fail; every token operation on such a generator returns
// ErrMissingSecret.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// IssueToken creates a signed session token with standard claims.
// Validity is purely a function of signature and embedded expiry; nothing is
// persisted server-side.
func (g *generator) IssueToken(userID string) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a session token and returns the user ID it
// asserts. There is no revocation list: a token remains valid until its
// embedded expiry regardless of logout.
func (g *generator) VerifyToken(tokenStr string) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrMissingSecret
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}

	return sub, nil
}
