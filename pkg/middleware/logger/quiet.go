package logger

import (
	"net/http"
	"strings"
	"sync"
)

var (
	quietMu    sync.RWMutex
	quietPaths = map[string]struct{}{
		"/ping":    {},
		"/metrics": {},
	}
)

// AddQuietPaths suppresses access records for probe-style paths.
func AddQuietPaths(paths ...string) {
	quietMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			quietPaths[p] = struct{}{}
		}
	}
	quietMu.Unlock()
}

func isQuiet(r *http.Request) bool {
	quietMu.RLock()
	_, ok := quietPaths[r.URL.Path]
	quietMu.RUnlock()
	return ok
}
