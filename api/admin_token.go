package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminTokens issues and verifies the short-lived credential returned by
// the admin login endpoint. Every mutating request is checked against it
// server-side; the persisted client flag alone unlocks nothing.
type adminTokens struct {
	secret []byte
	ttl    time.Duration
}

func newAdminTokens(secret string, ttl time.Duration) adminTokens {
	return adminTokens{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed admin token expiring after the configured TTL.
func (t adminTokens) Issue(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing admin token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks the signature and expiry of an admin token.
func (t adminTokens) Verify(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid admin token")
	}
	return nil
}
