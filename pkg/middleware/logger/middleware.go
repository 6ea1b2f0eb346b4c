package logger

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware writes one access record per request, after the response is done.
type Middleware struct {
	log *zap.Logger
}

func New(l *zap.Logger) *Middleware {
	if l == nil {
		l = zap.NewNop()
	}
	return &Middleware{log: l}
}

func (m *Middleware) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			if !isQuiet(r) {
				m.log.Info("request served", accessFields(r, ww, start)...)
			}
		})
	}
}

func accessFields(r *http.Request, ww chimd.WrapResponseWriter, start time.Time) []zap.Field {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	return []zap.Field{
		zap.String("requestId", chimd.GetReqID(r.Context())),
		zap.String("httpScheme", scheme),
		zap.String("httpProto", r.Proto),
		zap.String("httpMethod", r.Method),
		zap.String("remoteAddr", r.RemoteAddr),
		zap.String("uri", r.URL.RequestURI()),
		zap.Duration("lat", time.Since(start)),
		zap.Int("responseSize", ww.BytesWritten()),
		zap.Int("status", status),
	}
}
