package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Guard rejects requests without a valid bearer token when a secret is
// configured. Without a secret it is a pass-through.
func (m *Middleware) Guard(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := m.devUser(r); ok {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, u)))
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="diagnostics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		u, err := m.validateToken(raw)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="diagnostics", error="invalid_token"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, u)))
	})
}

// Audited is Guard plus one log line per admitted request.
func (m *Middleware) Audited(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.IsAuthenticated(r.Context()) {
				u := m.GetUser(r.Context())
				log.Info("diagnostics viewed",
					zap.String("user", u.Username),
					zap.String("role", u.Role),
					zap.String("remote", r.RemoteAddr),
				)
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
