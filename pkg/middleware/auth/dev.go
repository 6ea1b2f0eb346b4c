package auth

import "net/http"

// Local-only identity headers honoured when AUTH_DEV_BYPASS=true.
const (
	devUserHeader = "X-Dev-User"
	devRoleHeader = "X-Dev-Role"
)

func (m *Middleware) devUser(r *http.Request) (User, bool) {
	if !m.devBypass {
		return User{}, false
	}
	name := r.Header.Get(devUserHeader)
	if name == "" {
		return User{}, false
	}
	return User{Username: name, Role: r.Header.Get(devRoleHeader)}, true
}
