// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/frontctl/pkg/middleware/auth"
	"github.com/joeydtaylor/frontctl/pkg/middleware/logger"
	"github.com/joeydtaylor/frontctl/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the diagnostics guard, the system and access loggers and
// the named "metrics" handler. Each needs a manifest.Config in the graph.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
