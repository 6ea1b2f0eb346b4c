package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid"`
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
}

func (m *Middleware) validateToken(raw string) (User, error) {
	if !m.Enabled() {
		return User{}, errors.New("token secret not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	parser := jwt.NewParser(opts...)

	var c claims
	tok, err := parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid token")
	}

	username := c.UID
	if username == "" {
		username = c.Subject
	}
	if username == "" {
		return User{}, errors.New("missing uid")
	}
	return User{Username: username, Role: c.role()}, nil
}

// role prefers the single "role" claim and falls back to the first entry of "roles".
func (c claims) role() string {
	if c.Role != "" {
		return c.Role
	}
	for _, r := range c.Roles {
		if r != "" {
			return r
		}
	}
	return ""
}
