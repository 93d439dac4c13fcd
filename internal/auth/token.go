package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenIssuer mints and verifies the HS256 session tokens carried in the
// Authorization header and persisted by the directory and table backends.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration

	// now is swappable in tests to exercise expiry.
	now func() time.Time
}

// NewTokenIssuer returns a TokenIssuer signing with secret.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token whose subject is the given user id.
func (t *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": t.now().Unix(),
		"exp": t.now().Add(t.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the user id it was issued
// for. Expired, malformed, or foreign-keyed tokens all fail.
func (t *TokenIssuer) Verify(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer.Verify: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer.Verify: subject: %w", err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenIssuer.Verify: subject: %w", err)
	}
	return id, nil
}
