package service

import (
	"testing"
	"time"

	"github.com/openwaves/openwaves-backend/internal/config"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // minimum cost keeps the test fast
	}
	return NewAuthService(cfg, nil, nil)
}

func TestExaminerTokenRoundTrip(t *testing.T) {
	s := testAuthService()

	token, err := s.GenerateExaminerToken(42, "W1AW")
	if err != nil {
		t.Fatalf("GenerateExaminerToken() error = %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TokenType != TokenTypeExaminer {
		t.Errorf("token type = %q, want %q", claims.TokenType, TokenTypeExaminer)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Callsign != "W1AW" {
		t.Errorf("callsign = %q, want W1AW", claims.Callsign)
	}
	if claims.ID == "" {
		t.Error("expected a JTI on the token")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	s := testAuthService()

	token, err := s.GenerateExaminerToken(1, "K1ABC")
	if err != nil {
		t.Fatalf("GenerateExaminerToken() error = %v", err)
	}

	other := testAuthService()
	other.cfg.JWTSecret = "different-secret"
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}

	if _, err := s.ValidateToken(token + "x"); err == nil {
		t.Error("expected validation to fail for a corrupted token")
	}
}

func TestPasswordHashing(t *testing.T) {
	s := testAuthService()

	hash, err := s.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := s.CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() with right password = %v", err)
	}
	if err := s.CheckPassword(hash, "wrong password"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
