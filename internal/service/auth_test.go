package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/testutil"
)

func TestLoginSessions(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	users := repository.NewUserRepository(database)
	testutil.CreateUser(t, database, "admin", "correct-horse-battery")

	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	auth := NewAuthService(users, "secret", true, 12*time.Hour, 14*24*time.Hour)
	auth.now = func() time.Time { return now }

	t.Run("remember me lasts 14 days", func(t *testing.T) {
		user, session, err := auth.Login(ctx, "admin", "correct-horse-battery", true)
		require.NoError(t, err)
		assert.True(t, session.Persistent)
		assert.Equal(t, now.Add(14*24*time.Hour), session.ExpiresAt)

		rec := httptest.NewRecorder()
		auth.SetSessionCookie(rec, session)
		cookie := rec.Result().Cookies()[0]
		assert.Equal(t, SessionCookieName, cookie.Name)
		assert.Equal(t, 1209600, cookie.MaxAge)
		assert.True(t, cookie.Secure)

		got, err := auth.VerifySession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		stored, err := users.ByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastLogin)
		assert.True(t, now.Equal(*stored.LastLogin))
	})

	t.Run("browser session cookie", func(t *testing.T) {
		_, session, err := auth.Login(ctx, "admin", "correct-horse-battery", false)
		require.NoError(t, err)
		assert.False(t, session.Persistent)

		rec := httptest.NewRecorder()
		auth.SetSessionCookie(rec, session)
		cookie := rec.Result().Cookies()[0]
		assert.Zero(t, cookie.MaxAge)
		assert.True(t, cookie.Expires.IsZero())
	})

	t.Run("expired token", func(t *testing.T) {
		_, session, err := auth.Login(ctx, "admin", "correct-horse-battery", false)
		require.NoError(t, err)

		later := NewAuthService(users, "secret", true, 12*time.Hour, 14*24*time.Hour)
		later.now = func() time.Time { return now.Add(13 * time.Hour) }
		_, err = later.VerifySession(ctx, session.Token)
		assert.True(t, errors.Is(err, model.ErrUnauthorized))
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, session, err := auth.Login(ctx, "admin", "correct-horse-battery", false)
		require.NoError(t, err)

		other := NewAuthService(users, "other", true, time.Hour, time.Hour)
		other.now = auth.now
		_, err = other.VerifySession(ctx, session.Token)
		assert.True(t, errors.Is(err, model.ErrUnauthorized))
	})

	t.Run("bad password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "admin", "nope", false)
		assert.True(t, errors.Is(err, model.ErrInvalidCredentials))

		_, _, err = auth.Login(ctx, "nobody", "nope", false)
		assert.True(t, errors.Is(err, model.ErrInvalidCredentials))
	})

	t.Run("clear cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.ClearSessionCookie(rec)
		cookie := rec.Result().Cookies()[0]
		assert.Equal(t, -1, cookie.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	})
}
