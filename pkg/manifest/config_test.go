package manifest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{Routing: Routing{Controllers: "com.aki.controllers"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Namespace("com.aki.controllers"), cfg.Namespace())
	assert.Equal(t, []string{"."}, cfg.Routing.Roots)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, http.StatusOK, cfg.Server.NotFoundStatus)
	assert.Equal(t, DefaultDiagnosticsPath, cfg.Diagnostics.Path)
	assert.Equal(t, DefaultLogDir, cfg.Log.Dir)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestValidateRequiresControllers(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing")
}

func TestValidateNormalizesPaths(t *testing.T) {
	cfg := Config{
		Routing:     Routing{Controllers: "com/aki/controllers/", Roots: []string{" ", "build/classes"}},
		Server:      Server{ContextPath: "app/", NotFoundStatus: http.StatusNotFound},
		Diagnostics: Diagnostics{Path: "/routes/"},
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "com.aki.controllers", cfg.Routing.Controllers)
	assert.Equal(t, []string{"build/classes"}, cfg.Routing.Roots)
	assert.Equal(t, "/app", cfg.Server.ContextPath)
	assert.Equal(t, http.StatusNotFound, cfg.Server.NotFoundStatus)
	assert.Equal(t, "/routes", cfg.Diagnostics.Path)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]Config{
		"status":      {Routing: Routing{Controllers: "a"}, Server: Server{NotFoundStatus: 42}},
		"diagnostics": {Routing: Routing{Controllers: "a"}, Diagnostics: Diagnostics{Path: "list"}},
		"level":       {Routing: Routing{Controllers: "a"}, Log: Log{Level: "chatty"}},
		"namespace":   {Routing: Routing{Controllers: "a..b"}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNamespace(t *testing.T) {
	ns, err := ParseNamespace("internal.controllers")
	require.NoError(t, err)

	assert.Equal(t, "internal/controllers", ns.Dir())
	assert.Equal(t, "controllers", ns.Leaf())
	assert.Equal(t, Namespace("internal.controllers.admin"), ns.Child("admin"))
	assert.Equal(t, ns, FromDir("internal/controllers/"))
	assert.True(t, ns.Contains(ns.Child("admin")))
	assert.False(t, ns.Contains(Namespace("internal.controllersx")))

	_, err = ParseNamespace("bad name")
	assert.Error(t, err)
}
