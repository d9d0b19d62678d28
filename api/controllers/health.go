package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

const readyProbeTimeout = 3 * time.Second

// Pinger is anything the readiness probe can reach out and touch.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tillpoint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tillpoint-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "health.dependency_down")
				}
				continue
			}
			checks[name] = "up"
		}

		if !healthy {
			responses.WriteError(ctx, logg,
				w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
