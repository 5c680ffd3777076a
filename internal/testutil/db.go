// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/casetrack/casetrack/internal/db"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
)

// NewDB opens a migrated SQLite database in a per-test temp directory.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "casetrack.db")
	database, err := db.Init(context.Background(), db.DriverSQLite, path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), database.DB, db.DriverSQLite))
	return database
}

// UserOption customises a user created by CreateUser.
type UserOption func(*model.User)

func WithRole(roleID int64) UserOption {
	return func(u *model.User) { u.RoleID = &roleID }
}

func AsStaff() UserOption {
	return func(u *model.User) { u.IsStaff = true }
}

func WithName(first, last string) UserOption {
	return func(u *model.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// CreateUser inserts an active user whose password is password.
func CreateUser(t testing.TB, database *sqlx.DB, username, password string, opts ...UserOption) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, repository.NewUserRepository(database).Create(context.Background(), user))
	return user
}

// CreateCase inserts a case row directly, bypassing ingestion.
func CreateCase(t testing.TB, database *sqlx.DB, c *model.Case) *model.Case {
	t.Helper()

	cases := repository.NewCaseRepository(database)
	err := cases.InTx(context.Background(), func(w repository.CaseWriter) error {
		return w.InsertCase(context.Background(), c)
	})
	require.NoError(t, err)
	return c
}

// Count returns the number of rows in table.
func Count(t testing.TB, database *sqlx.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, database.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func Int64(v int64) *int64 { return &v }

func String(v string) *string { return &v }
