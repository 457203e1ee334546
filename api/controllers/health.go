package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shadeworks/storefront/api/responses"
	"github.com/shadeworks/storefront/pkg/config"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shadeworks/storefront/pkg/logger"
	"go.uber.org/multierr"
)

const readyCheckTimeout = 5 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and aggregates the failures. A
// nil pinger means the dependency is not configured and is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		var err error
		if db != nil {
			err = multierr.Append(err, db.Ping(ctx))
		}
		if redis != nil {
			err = multierr.Append(err, redis.Ping(ctx))
		}

		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
