package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Module exposes the scrape endpoint as the http.Handler named "metrics".
var Module = fx.Provide(fx.Annotate(ScrapeHandler, fx.ResultTags(`name:"metrics"`)))

// ScrapeHandler serves the default registry, which holds both the request
// counters and the dispatch/scan series.
func ScrapeHandler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}
