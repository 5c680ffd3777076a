package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrack/casetrack/internal/ctxkeys"
	"github.com/casetrack/casetrack/internal/metrics"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/service"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retry, err := rl.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retry)

	allowed, _, _ = rl.Allow(ctx, "other")
	assert.True(t, allowed)

	now = now.Add(time.Minute + time.Second)
	allowed, _, _ = rl.Allow(ctx, "k")
	assert.True(t, allowed)
}

func TestRateLimitCaseCreationKeysByUser(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimitCaseCreation(rl)(ok)

	serve := func(user *model.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/cases", nil)
		if user != nil {
			req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	alice := &model.User{ID: 1}
	bob := &model.User{ID: 2}
	assert.Equal(t, http.StatusNoContent, serve(alice).Code)
	assert.Equal(t, http.StatusNoContent, serve(bob).Code)

	rec := serve(alice)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
}

func TestRequireStaff(t *testing.T) {
	h := RequireStaff(ok)

	cases := []struct {
		name string
		user *model.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"reporter", &model.User{IsActive: true}, http.StatusForbidden},
		{"staff", &model.User{IsActive: true, IsStaff: true}, http.StatusNoContent},
		{"superuser", &model.User{IsActive: true, IsSuperuser: true}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.user != nil {
				req = req.WithContext(ctxkeys.WithUser(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(ok))

	t.Run("anonymous post passes and receives a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(csrfHeader))
	})

	token, err := newCSRFToken()
	require.NoError(t, err)
	withSession := func(header string) *http.Request {
		req := httptest.NewRequest("POST", "/api/cases", nil)
		req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: "jwt"})
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
		if header != "" {
			req.Header.Set(csrfHeader, header)
		}
		return req
	}

	t.Run("session post without token is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(""))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("session post with matching token passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(token))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("session post with stale token is rejected", func(t *testing.T) {
		other, err := newCSRFToken()
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(other))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("issued token is echoed without a new cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(token))
		assert.Equal(t, token, rec.Header().Get(csrfHeader))
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, rec.Body.String())
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var deadline time.Time
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.False(t, deadline.IsZero())
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	h := Chain(http.HandlerFunc(ok), RequestLogging(metrics.NewCollector()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/roles", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
