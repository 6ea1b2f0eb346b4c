package serverfx

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/joeydtaylor/frontctl/pkg/dispatch"
	"github.com/joeydtaylor/frontctl/pkg/manifest"
	"github.com/joeydtaylor/frontctl/pkg/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func TestManifestPathPrecedence(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv(cfg.ManifestEnv, "")
	assert.Equal(t, "manifest.toml", cfg.manifestPath())

	t.Setenv(cfg.ManifestEnv, "/etc/frontctl.toml")
	assert.Equal(t, "/etc/frontctl.toml", cfg.manifestPath())

	WithManifestPath("local.toml")(&cfg)
	assert.Equal(t, "local.toml", cfg.manifestPath())
}

func TestModuleGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module(), fx.NopLogger))
}

func TestProvideManifest(t *testing.T) {
	p := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte("[routing]\ncontrollers = \"internal.controllers\"\n"), 0o644))

	man, err := provideManifest(Config{ManifestPath: p})
	require.NoError(t, err)
	assert.Equal(t, "internal.controllers", man.Routing.Controllers)
	assert.Equal(t, manifest.DefaultListen, man.Server.Listen)

	_, err = provideManifest(Config{ManifestPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

type countingScanner struct {
	mu sync.Mutex
	n  int
}

func (c *countingScanner) Scan(context.Context) (scan.Result, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return scan.Result{}, nil
}

func (c *countingScanner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestWatchReload(t *testing.T) {
	cfg := manifest.Config{Routing: manifest.Routing{Controllers: "internal.controllers"}}
	require.NoError(t, cfg.Validate())
	sc := &countingScanner{}
	e := dispatch.New(cfg, core.NewRegistry(), dispatch.WithScanner(sc))

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		watchReload(ctx, sig, e, zap.NewNop())
		close(done)
	}()

	sig <- os.Interrupt
	sig <- os.Interrupt
	assert.Eventually(t, func() bool { return sc.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.NotNil(t, e.Table())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watchReload did not stop")
	}
}
