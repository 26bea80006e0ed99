package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tokopintar/catalog-backend/api/responses"
	"github.com/tokopintar/catalog-backend/pkg/config"
	"github.com/tokopintar/catalog-backend/pkg/db"
	"github.com/tokopintar/catalog-backend/pkg/imagekit"
	"github.com/tokopintar/catalog-backend/pkg/logger"
	"github.com/tokopintar/catalog-backend/pkg/redis"
)

const readyCheckTimeout = 5 * time.Second

type healthResponse struct {
	Success bool              `json:"success"`
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, healthResponse{Success: true, Status: "live"})
	}
}

// HealthReady pings every hard dependency and reports per-check status. Any
// failing check flips the response to 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, imageKitP imagekit.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		run := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					lctx := logg.WithField(ctx, "check", name)
					logg.Error(lctx, "health.check.failed", err)
				}
				return
			}
			checks[name] = "ok"
		}

		if dbP != nil {
			run("database", dbP.Ping)
		} else {
			checks["database"] = "skipped"
		}
		if redisP != nil {
			run("redis", redisP.Ping)
		} else {
			checks["redis"] = "skipped"
		}
		if imageKitP != nil {
			run("imagekit", imageKitP.Ping)
		} else {
			checks["imagekit"] = "skipped"
		}

		if !healthy {
			responses.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Success: false,
				Status:  "degraded",
				Checks:  checks,
			})
			return
		}
		responses.WriteSuccess(w, healthResponse{Success: true, Status: "ready", Checks: checks})
	}
}
