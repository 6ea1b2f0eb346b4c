package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessRecord(t *testing.T) {
	zc, logs := observer.New(zap.InfoLevel)
	mw := New(zap.New(zc)).Middleware()

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test/hello?x=1", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request served", logs.All()[0].Message)
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/test/hello?x=1", fields["uri"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(5), fields["responseSize"])
	assert.Equal(t, http.MethodGet, fields["httpMethod"])
}

func TestQuietPaths(t *testing.T) {
	zc, logs := observer.New(zap.InfoLevel)
	AddQuietPaths("/healthz")
	h := New(zap.New(zc)).Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, p := range []string{"/ping", "/metrics", "/healthz"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Zero(t, logs.Len())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, 1, logs.Len())
}

func TestNewLogWritesUnderDir(t *testing.T) {
	dir := t.TempDir()
	l := NewLog(Options{Dir: dir, Level: "debug"}, "system.log")
	l.Debug("hello")
	_ = l.Sync()
	assert.FileExists(t, dir+"/system.log")
}
