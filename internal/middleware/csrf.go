package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/service"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
	csrfTokenTTL   = 7 * 24 * time.Hour
)

// CSRFProtection runs a header-echo check for the JSON API. Every response
// carries the caller's token in X-CSRF-Token (and login repeats it in the
// body); a mutating request that presents a session cookie must send that
// token back in the same header. Cookie-less callers hold no ambient
// credentials and pass through.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := csrfTokenFromCookie(r)
		if !ok {
			var err error
			token, err = newCSRFToken()
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to issue csrf token", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			cfg := ctxkeys.Config(r.Context())
			http.SetCookie(w, csrfCookie(token, cfg != nil && cfg.IsProduction()))
		}

		w.Header().Set(csrfHeader, token)
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		if mutates(r.Method) && carriesSession(r) && !tokensMatch(token, r.Header.Get(csrfHeader)) {
			slog.WarnContext(r.Context(), "csrf token rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"ip", getClientIP(r),
			)
			writeJSONError(w, http.StatusForbidden, "CSRF token missing or incorrect.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func mutates(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func carriesSession(r *http.Request) bool {
	cookie, err := r.Cookie(service.SessionCookieName)
	return err == nil && cookie.Value != ""
}

// csrfTokenFromCookie returns a well-formed token issued earlier.
func csrfTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || len(cookie.Value) != base64.RawURLEncoding.EncodedLen(csrfTokenBytes) {
		return "", false
	}
	return cookie.Value, true
}

func newCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	_, err := rand.Read(buf)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// csrfCookie pins the token to the browser. Secure follows APP_ENV since TLS
// usually terminates at the load balancer.
func csrfCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(csrfTokenTTL.Seconds()),
	}
}

func tokensMatch(issued, echoed string) bool {
	if issued == "" || echoed == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(issued), []byte(echoed)) == 1
}
