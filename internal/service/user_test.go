package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/testutil"
	"github.com/casetrack/casetrack/internal/validation"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	svc := NewUserService(
		repository.NewUserRepository(database),
		repository.NewLookupRepository(database, repository.TableRoles),
		validation.DefaultPasswordPolicy,
	)

	role := int64(2)
	user, err := svc.Create(ctx, CreateUserInput{Username: " officer1 ", Password: "tangerine-orbit-42", Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "officer1", user.Username)
	assert.True(t, user.IsActive)
	assert.NoError(t, ComparePassword("tangerine-orbit-42", user.PasswordHash))

	_, err = svc.Create(ctx, CreateUserInput{Username: "officer1", Password: "tangerine-orbit-42"})
	assert.True(t, errors.Is(err, model.ErrDuplicateUsername))

	bad := int64(99)
	_, err = svc.Create(ctx, CreateUserInput{Username: "x", Password: "short", Role: &bad})
	var fields model.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, []string{`invalid pk "99" - object does not exist.`}, fields["role"])
	assert.Equal(t, []string{"This password is too short. It must contain at least 12 characters."}, fields["password"])

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
