package controllers

import (
	"context"
	"net/http"

	"github.com/lu-foet/notes-api/api/responses"
	"github.com/lu-foet/notes-api/pkg/config"
	"github.com/lu-foet/notes-api/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Notes-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency health. Any failing dependency flips the
// overall status and the response code. Nil dependencies are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache, blobs pinger) http.HandlerFunc {
	checks := []struct {
		name string
		dep  pinger
	}{
		{"database", database},
		{"redis", cache},
		{"cloudinary", blobs},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Notes-Env", cfg.App.Env)

		status := "ready"
		results := map[string]string{}
		for _, check := range checks {
			if check.dep == nil {
				continue
			}
			if err := check.dep.Ping(r.Context()); err != nil {
				results[check.name] = "unavailable"
				status = "degraded"
				if logg != nil {
					ctx := logg.WithField(r.Context(), "dependency", check.name)
					logg.Error(ctx, "health.dependency_down", err)
				}
				continue
			}
			results[check.name] = "ok"
		}

		body := map[string]any{"status": status, "checks": results}
		if status != "ready" {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, body)
			return
		}
		responses.WriteSuccess(w, body)
	}
}
