package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/articles-api/api/responses"
	"github.com/angelmondragon/articles-api/pkg/config"
	"github.com/angelmondragon/articles-api/pkg/envelope"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status string            `json:"status"`
	Env    string            `json:"env"`
	Checks map[string]string `json:"checks,omitempty"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, http.StatusOK, envelope.Success(1, "live", healthStatus{Status: "live", Env: cfg.App.Env}))
	}
}

// HealthReady pings every named dependency; any failure yields F-8.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
			checks[name] = "ok"
		}

		responses.WriteSuccess(w, http.StatusOK, envelope.Success(1, "ready", healthStatus{Status: "ready", Env: cfg.App.Env, Checks: checks}))
	}
}
