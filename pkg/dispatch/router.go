package dispatch

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/frontctl/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/frontctl/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/frontctl/pkg/transport/httpx"
)

type BuildDeps struct {
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Engine  *Engine
}

// BuildRouter mounts the engine behind the shared middleware chain. Only
// /ping and /metrics are registered on the mux; every other method and path
// reaches the engine.
func BuildRouter(d BuildDeps) http.Handler {
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	r.Use(hmetrics.Collect())
	hmetrics.SetPathNormalizer(d.Engine.MetricsPath)

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	r.CatchAll(d.Engine)
	return r.Mux()
}
