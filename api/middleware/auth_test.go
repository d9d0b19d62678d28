package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
)

const testJWTSecret = "unit-test-secret"

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": "clerk@example.com",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := config.JWTConfig{Secret: testJWTSecret, Audience: "authenticated"}

	var gotUserID, gotToken string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotToken = AccessTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token := signedToken(t, "user-1")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("unexpected user id %q", gotUserID)
	}
	if gotToken != token {
		t.Fatalf("raw token not forwarded")
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	cfg := config.JWTConfig{Secret: testJWTSecret}

	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsBadSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "other-secret"}

	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	cfg := config.JWTConfig{Secret: testJWTSecret}

	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) != "" {
			t.Fatalf("expected anonymous context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionIssuesIdentifier(t *testing.T) {
	var gotSessionID string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if gotSessionID == "" {
		t.Fatalf("expected issued session id")
	}
	if rec.Header().Get("X-Session-Id") != gotSessionID {
		t.Fatalf("session id not echoed in response header")
	}
}

func TestSessionKeepsCallerIdentifier(t *testing.T) {
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := SessionIDFromContext(r.Context()); got != "till-7" {
			t.Fatalf("unexpected session id %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "till-7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Session-Id") != "till-7" {
		t.Fatalf("caller session id not echoed")
	}
}
