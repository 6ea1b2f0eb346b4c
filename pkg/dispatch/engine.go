// Package dispatch is the front controller: one http.Handler that every
// request reaches. For each request it picks, in order, the route report,
// a static file, a discovered handler, or the not-found page.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	hmetrics "github.com/joeydtaylor/frontctl/pkg/middleware/metrics"
	"github.com/joeydtaylor/frontctl/pkg/scan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer resolves against the global provider; without one configured its
// spans are no-ops.
var tracer = otel.Tracer("github.com/joeydtaylor/frontctl/pkg/dispatch")

// Scanner is the discovery side the engine depends on. *scan.Scanner implements it.
type Scanner interface {
	Scan(ctx context.Context) (scan.Result, error)
}

// Engine resolves requests against an immutable route table snapshot.
// Reload builds a new table and swaps it in; requests in flight keep the
// snapshot they started with.
type Engine struct {
	contextPath      string
	staticDir        string
	diagnosticsPath  string
	notFoundStatus   int
	rescanPerRequest bool

	scanner Scanner
	reg     *core.Registry
	log     *zap.Logger
	guard   func(http.Handler) http.Handler

	table    atomic.Pointer[core.Table]
	reloadMu sync.Mutex
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithScanner replaces the scanner built from the manifest.
func WithScanner(s Scanner) Option { return func(e *Engine) { e.scanner = s } }

// WithDiagnosticsGuard wraps the route report, e.g. with auth.Middleware.Guard.
func WithDiagnosticsGuard(g func(http.Handler) http.Handler) Option {
	return func(e *Engine) { e.guard = g }
}

// New builds an engine from a validated manifest. The table starts empty;
// call Reload to populate it.
func New(cfg manifest.Config, reg *core.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = core.Default
	}
	e := &Engine{
		contextPath:      cfg.Server.ContextPath,
		staticDir:        cfg.Server.StaticDir,
		diagnosticsPath:  cfg.Diagnostics.Path,
		notFoundStatus:   cfg.Server.NotFoundStatus,
		rescanPerRequest: cfg.Routing.RescanPerRequest,
		reg:              reg,
		log:              zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.scanner == nil {
		e.scanner = scan.New(cfg.Namespace(), cfg.Routing.Roots, scan.WithLogger(e.log))
	}
	if e.diagnosticsPath == "" {
		e.diagnosticsPath = manifest.DefaultDiagnosticsPath
	}
	if e.notFoundStatus == 0 {
		e.notFoundStatus = http.StatusOK
	}
	return e
}

// Table returns the published snapshot (nil before the first Reload).
func (e *Engine) Table() *core.Table { return e.table.Load() }

// Reload scans, binds and publishes a new table. On failure the previous
// snapshot stays in place. Concurrent reloads are serialized.
func (e *Engine) Reload(ctx context.Context) (*core.Table, error) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	t, err := e.build(ctx)
	if err != nil {
		e.log.Error("route table reload failed", zap.Error(err))
		return nil, err
	}
	e.table.Store(t)
	e.log.Info("route table published",
		zap.String("generation", t.Generation()),
		zap.Int("routes", t.Len()),
		zap.Int("skipped", len(t.Skipped())),
		zap.Int("collisions", len(t.Collisions())),
	)
	for _, c := range t.Collisions() {
		e.log.Info("route key overwritten by later scan",
			zap.String("key", c.Key),
			zap.String("replaced", c.Replaced.QualifiedType()+"."+c.Replaced.MethodName),
			zap.String("winner", c.Winner.QualifiedType()+"."+c.Winner.MethodName),
		)
	}
	return t, nil
}

func (e *Engine) build(ctx context.Context) (*core.Table, error) {
	ctx, span := tracer.Start(ctx, "frontctl.scan")
	defer span.End()

	start := time.Now()
	res, err := e.scanner.Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan aborted")
		return nil, fmt.Errorf("scan: %w", err)
	}
	t := core.Bind(res.Descriptors, res.Skipped, e.reg)
	hmetrics.ObserveScan(time.Since(start), t.Len(), len(t.Skipped()))
	span.SetAttributes(
		attribute.String("frontctl.generation", t.Generation()),
		attribute.Int("frontctl.routes", t.Len()),
		attribute.Int("frontctl.skipped", len(t.Skipped())),
	)
	return t, nil
}

// current returns the table a request should use. With rescan_per_request
// every call runs its own scan; a failed scan falls back to the snapshot.
func (e *Engine) current(ctx context.Context) *core.Table {
	if !e.rescanPerRequest {
		return e.table.Load()
	}
	t, err := e.build(ctx)
	if err != nil {
		e.log.Warn("per-request scan failed, using snapshot", zap.Error(err))
		return e.table.Load()
	}
	return t
}

// RoutingPath strips the context path and normalizes. ok is false when the
// request lies outside the context path.
func (e *Engine) RoutingPath(r *http.Request) (p string, ok bool) {
	p = r.URL.Path
	if e.contextPath != "" {
		switch {
		case p == e.contextPath:
			p = "/"
		case strings.HasPrefix(p, e.contextPath+"/"):
			p = p[len(e.contextPath):]
		default:
			return "", false
		}
	}
	return core.NormalizePath(p), true
}

func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := e.RoutingPath(r)
	if !ok {
		e.notFound(w, r)
		return
	}

	if p == e.diagnosticsPath {
		hmetrics.RecordDispatch(hmetrics.OutcomeDiagnostics)
		e.diagnosticsHandler().ServeHTTP(w, r)
		return
	}

	if file, ok := e.staticFile(p); ok {
		hmetrics.RecordDispatch(hmetrics.OutcomeStatic)
		http.ServeFile(w, r, file)
		return
	}

	if rt, ok := e.current(r.Context()).Lookup(p); ok {
		e.invoke(w, r, rt)
		return
	}

	e.notFound(w, r)
}

func (e *Engine) diagnosticsHandler() http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusOK, renderReport(e.current(r.Context())))
	})
	if e.guard != nil {
		return e.guard(h)
	}
	return h
}

func (e *Engine) invoke(w http.ResponseWriter, r *http.Request, rt core.Route) {
	ctx, span := tracer.Start(r.Context(), "frontctl.invoke",
		trace.WithAttributes(
			attribute.String("frontctl.route", rt.Key()),
			attribute.String("frontctl.type", rt.QualifiedType()),
			attribute.String("frontctl.method", rt.MethodName),
		),
	)
	defer span.End()

	out, err := safeInvoke(ctx, rt.Invoke)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		hmetrics.RecordDispatch(hmetrics.OutcomeFailure)
		e.log.Error("handler failed",
			zap.String("path", rt.Key()),
			zap.String("type", rt.QualifiedType()),
			zap.String("method", rt.MethodName),
			zap.Error(err),
		)
		writeHTML(w, http.StatusInternalServerError, renderFailure(rt.Key()))
		return
	}
	span.SetStatus(codes.Ok, "")
	hmetrics.RecordDispatch(hmetrics.OutcomeHandler)
	writeHTML(w, http.StatusOK, out+"\n")
}

func (e *Engine) notFound(w http.ResponseWriter, r *http.Request) {
	hmetrics.RecordDispatch(hmetrics.OutcomeNotFound)
	e.log.Debug("no route", zap.String("uri", r.RequestURI), zap.Error(core.ErrRouteNotFound))
	writeHTML(w, e.notFoundStatus, renderNotFound(requestPath(r)))
}

// safeInvoke runs inv, converting both returned errors and panics into ErrInvocation.
func safeInvoke(ctx context.Context, inv core.Invoker) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", fmt.Errorf("%w: panic: %v", core.ErrInvocation, rec)
		}
	}()
	if inv == nil {
		return "", fmt.Errorf("%w: %w", core.ErrInvocation, core.ErrUnbound)
	}
	out, err = inv(ctx)
	if err != nil && !errors.Is(err, core.ErrInvocation) {
		err = fmt.Errorf("%w: %w", core.ErrInvocation, err)
	}
	return out, err
}

// MetricsPath maps a request to a bounded label, checked in the order
// ServeHTTP dispatches: the diagnostics path, "static", the route key, or
// "unmatched".
func (e *Engine) MetricsPath(r *http.Request) string {
	p, ok := e.RoutingPath(r)
	switch {
	case !ok:
		return "unmatched"
	case p == e.diagnosticsPath:
		return p
	}
	if _, ok := e.staticFile(p); ok {
		return "static"
	}
	if rt, ok := e.table.Load().Lookup(p); ok {
		return rt.Key()
	}
	return "unmatched"
}

// requestPath is the raw request path as the client sent it, without the query.
func requestPath(r *http.Request) string {
	if r.RequestURI != "" {
		p, _, _ := strings.Cut(r.RequestURI, "?")
		return p
	}
	return r.URL.EscapedPath()
}
