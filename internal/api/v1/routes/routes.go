package routes

import (
	"context"
	"net/http"
	"time"

	v1handlers "github.com/deepgram/danmaku/internal/api/v1/handlers"
	"github.com/deepgram/danmaku/internal/connections"
	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/httpext"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/gorilla/mux"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status       string            `json:"status"`
	Connections  int               `json:"connections"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// NewRouter wires the health check and every v1 route. A failing entry in
// checks turns /healthz into a 503 "degraded" response.
func NewRouter(processor workflow.Processor, manager *connections.Manager, limiters v1handlers.LimiterFactory, checks map[string]func(ctx context.Context) error, authEnabled bool) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "ok",
			Connections: manager.GetConnectionCount(),
		}
		code := http.StatusOK

		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			resp.Dependencies = make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check(ctx); err != nil {
					logger.For(logger.HANDLER).Warn().Err(err).Str("dependency", name).Msg("Health check failed")
					resp.Dependencies[name] = "unavailable"
					resp.Status = "degraded"
					code = http.StatusServiceUnavailable
					continue
				}
				resp.Dependencies[name] = "ok"
			}
		}

		httpext.JsonResponse(w, code, resp)
	}).Methods("GET")

	v1handlers.RegisterV1Routes(router, processor, manager, limiters, authEnabled)

	return router
}
