package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
)

// BearerToken pulls the bearer token out of the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header required")
	}
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(raw[7:])
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required")
	}
	return token, nil
}
