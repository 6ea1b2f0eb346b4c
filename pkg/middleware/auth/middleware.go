package auth

import (
	"context"
	"time"
)

// User is the identity recovered from a verified diagnostics token.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Middleware guards operator-only endpoints (the route report) with an
// HS256 bearer token. A Middleware without a secret lets everything through.
type Middleware struct {
	secret    []byte
	issuer    string
	leeway    time.Duration
	devBypass bool
}

func (m *Middleware) Enabled() bool { return m != nil && len(m.secret) > 0 }

// GetUser returns the verified user stored on ctx by Guard.
func (m *Middleware) GetUser(ctx context.Context) User {
	if u, ok := ctx.Value(userCtxKey).(User); ok {
		return u
	}
	return User{}
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	return m.GetUser(ctx).Username != ""
}
