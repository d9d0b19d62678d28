package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the terminal session identifier that scopes the caller's
// cart. A caller without one is issued a fresh identifier; either way the
// response echoes it back so the terminal can keep presenting it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
