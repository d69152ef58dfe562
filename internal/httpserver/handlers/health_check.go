package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/conexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/respond"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// HealthCheck answers with the store identification, or 503 when the
// store cannot be reached.
func HealthCheck(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desc, err := d.Store.Describe(r.Context())
		if err != nil {
			d.Logger.Error("health check failed",
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.Error(err))
			respond.Error(w, http.StatusServiceUnavailable, respond.CodeStoreUnavailable, "store unavailable")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(desc))
	}
}
