// ABOUTME: Client identity middleware for API endpoints
// ABOUTME: Derives the per-client key the rate limiter counts against

package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientIDContextKey struct{}

// ClientIdentity stores the caller's identity in the request context
func ClientIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIDContextKey{}, extractIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromContext returns the identity stored by ClientIdentity, or
// "unknown" when the middleware did not run
func ClientIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDContextKey{}).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// extractIP gets the client IP from the request. The first X-Forwarded-For
// hop is the original client.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
