package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeydtaylor/frontctl/pkg/bundlefx"
	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/dispatch"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/joeydtaylor/frontctl/pkg/middleware/auth"
	"github.com/joeydtaylor/frontctl/pkg/middleware/logger"
	"github.com/joeydtaylor/frontctl/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestPath    string // explicit path; wins over ManifestEnv
	ManifestEnv     string // FRONTCTL_MANIFEST
	DefaultManifest string // "manifest.toml"
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
	Registry        *core.Registry
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestPath(p string) Option       { return func(c *Config) { c.ManifestPath = p } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

// WithRegistry replaces core.Default as the source of invokers.
func WithRegistry(r *core.Registry) Option { return func(c *Config) { c.Registry = r } }

func defaultConfig() Config {
	return Config{
		Service:         "frontctl",
		ManifestEnv:     "FRONTCTL_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
		Registry:        core.Default,
	}
}

// manifestPath resolves the manifest location: explicit path, then env, then default.
func (c Config) manifestPath() string {
	if c.ManifestPath != "" {
		return c.ManifestPath
	}
	return envOr(c.ManifestEnv, c.DefaultManifest)
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		// auth, logger, metrics (named "metrics")
		bundlefx.Module,
		fx.Provide(httpx.NewChi),
		fx.Provide(provideEngine),
		fx.Provide(fx.Annotate(
			provideRouter,
			fx.ParamTags(``, ``, `name:"metrics"`, ``),
			fx.ResultTags(`name:"app"`),
		)),
		fx.Invoke(registerHooks),
	)
}

// ---------- Manifest ----------

func provideManifest(cfg Config) (manifest.Config, error) {
	return core.LoadConfig(cfg.manifestPath())
}

// ---------- Engine ----------

func provideEngine(cfg Config, man manifest.Config, a *auth.Middleware, zl *zap.Logger) (*dispatch.Engine, error) {
	opts := []dispatch.Option{dispatch.WithLogger(zl)}
	if a.Enabled() {
		opts = append(opts, dispatch.WithDiagnosticsGuard(a.Audited(zl)))
	}
	e := dispatch.New(man, cfg.Registry, opts...)
	if _, err := e.Reload(context.Background()); err != nil {
		return nil, err
	}
	zl.Info("controllers scanned",
		zap.String("namespace", man.Routing.Controllers),
		zap.Strings("roots", man.Routing.Roots),
		zap.Bool("rescanPerRequest", man.Routing.RescanPerRequest),
	)
	return e, nil
}

// ---------- Router ----------

func provideRouter(
	lm *logger.Middleware,
	r httpx.Router,
	/* name:"metrics" */ m http.Handler,
	e *dispatch.Engine,
) http.Handler {
	return dispatch.BuildRouter(dispatch.BuildDeps{
		LogMW:   lm,
		Metrics: m,
		Router:  r,
		Engine:  e,
	})
}

// ---------- Lifecycle (HTTP server + reload on SIGHUP) ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	Manifest manifest.Config
	Engine   *dispatch.Engine
	App      http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	addr := envOr(cfg.ListenEnv, d.Manifest.Server.Listen)
	cert := os.Getenv(cfg.TLSCertEnv)
	key := os.Getenv(cfg.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	hup := make(chan os.Signal, 1)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			signal.Notify(hup, syscall.SIGHUP)
			go watchReload(reloadCtx, hup, d.Engine, d.Logger)

			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", cfg.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", cfg.Service),
					zap.String("addr", addr),
				)
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", cfg.Service))
			signal.Stop(hup)
			reloadCancel()
			return srv.Shutdown(ctx)
		},
	})
}

// watchReload rebuilds the route table each time a signal arrives on sig.
func watchReload(ctx context.Context, sig <-chan os.Signal, e *dispatch.Engine, zl *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			zl.Info("reload requested")
			if _, err := e.Reload(ctx); err != nil && ctx.Err() == nil {
				zl.Error("reload failed, keeping previous table", zap.Error(err))
			}
		}
	}
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
