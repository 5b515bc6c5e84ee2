// Package token issues and verifies the signed bearer tokens used to
// authenticate API requests. Tokens are HS256 JWTs carrying the user ID
// and a fixed expiry; expiry is the only invalidation mechanism.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "newsfeed-service/pkg/errors"
)

// Claims represents the JWT claims embedded in issued tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

// Manager signs and verifies bearer tokens with a server-side secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret must be non-empty;
// configuration validation enforces that before the manager is built.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue signs a token for the given user ID with the configured expiry.
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token string, returning the embedded
// user ID. Tampered, foreign-signed, or expired tokens are rejected
// with ErrTokenInvalid.
func (m *Manager) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil || !tok.Valid {
		return 0, apperrors.ErrTokenInvalid
	}

	return claims.UserID, nil
}
