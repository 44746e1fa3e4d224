// Package auth is the identity middleware: it parses the bearer token once
// per request and places the caller's name and role into the context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/core"
	"bookkeeper/internal/httputil"
)

type contextKey string

const callerKey contextKey = "caller"

// Caller is the verified identity attached to an authenticated request.
type Caller struct {
	Name string
	Role string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == core.RoleAdmin
}

// CanAccess reports whether the caller may read resources owned by userName.
// Admins read anything; everyone else only their own.
func (c Caller) CanAccess(userName string) bool {
	return c.IsAdmin() || c.Name == userName
}

// Middleware rejects requests without a valid bearer token and stores the
// caller identity for handlers downstream.
func Middleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "AuthenticationError", "missing bearer token")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "AuthenticationError", "invalid or expired token")
				return
			}

			caller := Caller{Name: claims.Name, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WithCaller returns ctx carrying the given caller identity.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFrom extracts the caller identity placed by Middleware.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}
