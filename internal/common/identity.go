package common

import (
	"net/http"
	"strings"
)

// Identity header names set by the upstream gateway. Authentication itself
// happens before requests reach this service.
const (
	HeaderUserID = "X-User-ID"
	HeaderAnonID = "X-Anon-ID"
)

// IdentityMiddleware lifts gateway-supplied identity headers into the request
// context so downstream handlers can resolve cart and profile ownership.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if uid := strings.TrimSpace(r.Header.Get(HeaderUserID)); uid != "" {
			ctx = WithUserID(ctx, uid)
		}
		if aid := strings.TrimSpace(r.Header.Get(HeaderAnonID)); aid != "" {
			ctx = WithAnonID(ctx, aid)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects requests that carry neither a user nor an anonymous
// session identifier.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := AnonID(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "identity required", nil)
	})
}
