// Package auth signs and verifies dashboard session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the verified content of a session token.
type Claims struct {
	AccountID uuid.UUID
	SessionID string
	ExpiresAt time.Time
}

// JWTManager handles session token generation and validation.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL returns the lifetime of issued tokens.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// GenerateSessionToken creates a signed HS256 JWT with the account ID as
// subject and the session ID as token ID.
func (m *JWTManager) GenerateSessionToken(accountID uuid.UUID, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id is empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   accountID.String(),
		Issuer:    m.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateSessionToken parses and validates a session token.
func (m *JWTManager) ValidateSessionToken(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, errors.New("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("invalid token claims")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("invalid subject UUID: %w", err)
	}
	if claims.ID == "" {
		return Claims{}, errors.New("token has no session id")
	}

	return Claims{
		AccountID: accountID,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
