package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/service"
)

// AuthMiddleware resolves the session cookie to a user and adds it to the context.
// Requests without a valid session continue anonymously.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.VerifySession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, model.ErrUnauthorized) {
					slog.ErrorContext(r.Context(), "failed to verify session", "error", err)
				}
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Keep the hash out of the request context
			user.PasswordHash = ""

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireStaff admits only staff and superusers; anonymous requests get 401
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.User(r.Context()).CanAdminister() {
			writeJSONError(w, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
