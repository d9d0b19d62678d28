package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
)

func signToken(t *testing.T, secret string, claims AccessTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func baseClaims() AccessTokenClaims {
	return AccessTokenClaims{
		Email: "till@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseAccessTokenRoundTrip(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Audience: "authenticated"}
	signed := signToken(t, cfg.Secret, baseClaims())

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Fatalf("unexpected user id %q", claims.UserID())
	}
	if claims.Email != "till@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed := signToken(t, "other-secret", baseClaims())
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "secret"}, signed); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	claims := baseClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := signToken(t, "secret", claims)
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "secret", Audience: "authenticated"}, signed); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseAccessTokenRequiresSubject(t *testing.T) {
	claims := baseClaims()
	claims.Subject = ""
	signed := signToken(t, "secret", claims)
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "secret", Audience: "authenticated"}, signed); err == nil {
		t.Fatal("expected missing subject error")
	}
}
