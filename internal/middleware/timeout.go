package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context. Work that runs past the deadline fails
// with context.DeadlineExceeded and is reported by the handler as a 500.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
