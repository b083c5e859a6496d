package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the session token payload. Field types and JSON tags match
// what the session middleware parses, so tokens issued here round-trip.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tid"`
	UserID   string `json:"uid"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// ErrInvalidToken is returned when a session token cannot be parsed or has
// expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// IssueSessionToken creates a signed session JWT. The token id (jti) is a
// fresh UUID so individual sessions can be revoked on logout.
func IssueSessionToken(secret string, tenantID, userID uuid.UUID, role, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "warelog",
		},
		TenantID: tenantID.String(),
		UserID:   userID.String(),
		Role:     role,
		Name:     name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueSessionToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a session token string. Returns the
// embedded claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	if !token.Valid {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	return claims, nil
}
