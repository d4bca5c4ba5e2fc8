package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	testSecret = "test-secret-at-least-32-chars-long-for-security"
	testIssuer = "dashboard-test"
)

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, 15*time.Minute)
	accountID := uuid.New()

	token, err := manager.GenerateSessionToken(accountID, "sess-42")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := manager.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}
	if claims.AccountID != accountID {
		t.Errorf("expected account %s, got %s", accountID, claims.AccountID)
	}
	if claims.SessionID != "sess-42" {
		t.Errorf("expected session sess-42, got %q", claims.SessionID)
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Errorf("expected expiry in the future, got %s", claims.ExpiresAt)
	}
}

func TestJWTManager_GenerateSessionToken_EmptySession(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, time.Minute)

	if _, err := manager.GenerateSessionToken(uuid.New(), ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestJWTManager_ValidateSessionToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, -1*time.Hour)

	token, err := manager.GenerateSessionToken(uuid.New(), "sess")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := manager.ValidateSessionToken(token); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestJWTManager_ValidateSessionToken_InvalidSignature(t *testing.T) {
	manager1 := NewJWTManager(testSecret, testIssuer, time.Minute)
	manager2 := NewJWTManager("different-secret-32-chars-long-for-security!!", testIssuer, time.Minute)

	token, err := manager1.GenerateSessionToken(uuid.New(), "sess")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := manager2.ValidateSessionToken(token); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateSessionToken_WrongIssuer(t *testing.T) {
	issuerA := NewJWTManager(testSecret, "issuer-a", time.Minute)
	issuerB := NewJWTManager(testSecret, "issuer-b", time.Minute)

	token, err := issuerA.GenerateSessionToken(uuid.New(), "sess")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := issuerB.ValidateSessionToken(token); err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
}

func TestJWTManager_ValidateSessionToken_Malformed(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, time.Minute)

	for _, token := range []string{"", "not.a.jwt", "invalid-token", "header.payload"} {
		if _, err := manager.ValidateSessionToken(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

func TestJWTManager_ValidateSessionToken_WrongAlgorithm(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, time.Minute)

	claims := jwt.RegisteredClaims{
		ID:        "sess",
		Subject:   uuid.New().String(),
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := manager.ValidateSessionToken(signed); err == nil {
		t.Fatal("expected error for alg=none token")
	}
}

func TestJWTManager_ValidateSessionToken_MissingSessionID(t *testing.T) {
	manager := NewJWTManager(testSecret, testIssuer, time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := manager.ValidateSessionToken(signed); err == nil {
		t.Fatal("expected error for token without session id")
	}
}
