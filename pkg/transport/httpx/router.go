package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the mux surface the dispatcher needs: a middleware chain, a
// couple of fixed GET endpoints and a fallback that takes everything else.
type Router interface {
	Use(mw ...func(http.Handler) http.Handler)
	Get(path string, h http.Handler)
	// CatchAll receives every method and path not registered with Get,
	// including what chi would answer with 404 or 405.
	CatchAll(h http.Handler)
	Mux() http.Handler
}

type chiRouter struct{ mux *chi.Mux }

// NewChi returns a Router backed by a fresh chi.Mux.
func NewChi() Router { return &chiRouter{mux: chi.NewRouter()} }

func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.mux.Use(mw...) }
func (c *chiRouter) Get(path string, h http.Handler)           { c.mux.Method(http.MethodGet, path, h) }
func (c *chiRouter) Mux() http.Handler                         { return c.mux }

func (c *chiRouter) CatchAll(h http.Handler) {
	c.mux.Handle("/*", h)
	c.mux.NotFound(h.ServeHTTP)
	c.mux.MethodNotAllowed(h.ServeHTTP)
}
