package auth

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"go.uber.org/fx"
)

// ProvideAuthentication wires the manifest's diagnostics secret, with env
// overrides for secrets that should not live in the manifest file.
func ProvideAuthentication(cfg manifest.Config) *Middleware {
	secret := strings.TrimSpace(os.Getenv("DIAGNOSTICS_JWT_SECRET"))
	if secret == "" {
		secret = cfg.Diagnostics.JWTSecret
	}

	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}

	return New(secret, cfg.Diagnostics.JWTIssuer,
		WithLeeway(leeway),
		WithDevBypass(os.Getenv("AUTH_DEV_BYPASS") == "true"),
	)
}

type Option func(*Middleware)

func WithLeeway(d time.Duration) Option { return func(m *Middleware) { m.leeway = d } }
func WithDevBypass(on bool) Option      { return func(m *Middleware) { m.devBypass = on } }

func New(secret, issuer string, opts ...Option) *Middleware {
	m := &Middleware{issuer: issuer, leeway: 60 * time.Second}
	if secret != "" {
		m.secret = []byte(secret)
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
