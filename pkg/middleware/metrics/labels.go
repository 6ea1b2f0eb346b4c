package metrics

import (
	"net/http"
	"strings"
	"sync"
)

// labelPolicy decides which requests are counted and what "uri" label they carry.
type labelPolicy struct {
	mu        sync.RWMutex
	skip      map[string]bool
	uriLabelF func(*http.Request) string
}

var labels = &labelPolicy{
	skip:      map[string]bool{"/metrics": true, "/ping": true},
	uriLabelF: func(r *http.Request) string { return r.URL.Path },
}

// AddMetricsSkipPaths excludes more exact paths from collection. Blank entries are ignored.
func AddMetricsSkipPaths(paths ...string) {
	labels.mu.Lock()
	defer labels.mu.Unlock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			labels.skip[p] = true
		}
	}
}

// SetPathNormalizer replaces the uri labeller. The dispatcher installs one
// that collapses unmatched paths so label cardinality stays bounded.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		return
	}
	labels.mu.Lock()
	labels.uriLabelF = fn
	labels.mu.Unlock()
}

// label reports the uri label for r, or ok=false when r is not collected.
func (p *labelPolicy) label(r *http.Request) (uri string, ok bool) {
	p.mu.RLock()
	skipped := p.skip[r.URL.Path]
	fn := p.uriLabelF
	p.mu.RUnlock()
	if skipped {
		return "", false
	}
	return fn(r), true
}
