// manifest/config.go
package manifest

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultListen          = ":4000"
	DefaultDiagnosticsPath = "/list"
	DefaultLogDir          = "log"
	DefaultLogLevel        = "info"
)

// Config is the top-level manifest.
type Config struct {
	Routing     Routing     `toml:"routing"`
	Server      Server      `toml:"server"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Log         Log         `toml:"log"`
}

/* ===========================
   Routing
   =========================== */

type Routing struct {
	Controllers      string   `toml:"controllers"`        // dotted namespace, e.g. "internal.controllers"
	Roots            []string `toml:"roots"`              // directories or .zip/.tar.gz archives
	RescanPerRequest bool     `toml:"rescan_per_request"` // scan on every request instead of at startup
}

/* ===========================
   HTTP hosting
   =========================== */

type Server struct {
	Listen         string `toml:"listen"`
	ContextPath    string `toml:"context_path"`     // stripped from request paths before routing
	StaticDir      string `toml:"static_dir"`       // optional; static files win over handlers
	NotFoundStatus int    `toml:"not_found_status"` // default 200 (compatibility)
}

type Diagnostics struct {
	Path      string `toml:"path"`
	JWTSecret string `toml:"jwt_secret"` // when set the report requires an HS256 bearer token
	JWTIssuer string `toml:"jwt_issuer"`
}

type Log struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// Namespace returns the parsed controller namespace. Only valid after Validate.
func (c *Config) Namespace() Namespace { return Namespace(c.Routing.Controllers) }

// Validate normalizes the manifest in place and fills defaults.
func (c *Config) Validate() error {
	if err := c.Routing.normalize(); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	if err := c.Server.normalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Diagnostics.normalize(); err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	if err := c.Log.normalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (r *Routing) normalize() error {
	ns, err := ParseNamespace(r.Controllers)
	if err != nil {
		return fmt.Errorf("controllers: %w", err)
	}
	r.Controllers = string(ns)

	roots := r.Roots[:0]
	for _, root := range r.Roots {
		if root = strings.TrimSpace(root); root != "" {
			roots = append(roots, root)
		}
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	r.Roots = roots
	return nil
}

func (s *Server) normalize() error {
	s.Listen = strings.TrimSpace(s.Listen)
	if s.Listen == "" {
		s.Listen = DefaultListen
	}

	cp := strings.TrimSpace(s.ContextPath)
	if cp != "" && cp != "/" {
		if !strings.HasPrefix(cp, "/") {
			cp = "/" + cp
		}
		cp = path.Clean(cp)
	}
	if cp == "/" {
		cp = ""
	}
	s.ContextPath = cp

	s.StaticDir = strings.TrimSpace(s.StaticDir)

	if s.NotFoundStatus == 0 {
		s.NotFoundStatus = http.StatusOK
	}
	if s.NotFoundStatus < 200 || s.NotFoundStatus > 599 {
		return fmt.Errorf("not_found_status %d out of range", s.NotFoundStatus)
	}
	return nil
}

func (d *Diagnostics) normalize() error {
	p := strings.TrimSpace(d.Path)
	if p == "" {
		p = DefaultDiagnosticsPath
	}
	if !strings.HasPrefix(p, "/") {
		return errors.New("path must start with /")
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	d.Path = p
	d.JWTSecret = strings.TrimSpace(d.JWTSecret)
	d.JWTIssuer = strings.TrimSpace(d.JWTIssuer)
	return nil
}

func (l *Log) normalize() error {
	l.Dir = strings.TrimSpace(l.Dir)
	if l.Dir == "" {
		l.Dir = DefaultLogDir
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return err
	}
	return nil
}
