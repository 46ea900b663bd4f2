// Package auth provides password hashing and JWT issuance for the
// content registry.
package auth

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenService issues and verifies signed access tokens. The embedded
// *jwtauth.JWTAuth plugs straight into the router's verification
// middleware.
type TokenService struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
}

// NewTokenService creates a token service signing with HS256.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		ja:  jwtauth.New("HS256", []byte(secret), nil),
		ttl: ttl,
	}
}

// JWTAuth exposes the underlying verifier for middleware wiring.
func (t *TokenService) JWTAuth() *jwtauth.JWTAuth {
	return t.ja
}

// Issue creates a signed token carrying the user's id.
func (t *TokenService) Issue(userID uuid.UUID) (string, error) {
	claims := map[string]interface{}{
		"user_id": userID.String(),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, t.ttl)

	_, tokenString, err := t.ja.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return tokenString, nil
}

// UserID extracts the user id claim from a verified token's claims.
func UserID(claims map[string]interface{}) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("token has no user_id claim")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id claim: %w", err)
	}
	return id, nil
}
