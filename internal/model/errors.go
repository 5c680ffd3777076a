package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Base errors, each rendered with a fixed HTTP status code.
var (
	// ErrBadParameter is rendered with the http status code 400
	ErrBadParameter = errors.New("bad parameter")

	// ErrUnauthorized is rendered with the http status code 401
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is rendered with the http status code 403
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is rendered with the http status code 404
	ErrNotFound = errors.New("not found")

	// ErrConflict is rendered with the http status code 409
	ErrConflict = errors.New("duplicate value")

	// ErrRateLimited is rendered with the http status code 429
	ErrRateLimited = errors.New("rate limit exceeded")
)

var (
	ErrUserNotFound       = errors.Wrap(ErrNotFound, "user not found")
	ErrCaseNotFound       = errors.Wrap(ErrNotFound, "case not found")
	ErrDuplicateUsername  = errors.Wrap(ErrConflict, "username already exists")
	ErrInvalidCredentials = errors.Wrap(ErrUnauthorized, "invalid username or password")

	ErrRangeRequired     = errors.Wrap(ErrBadParameter, "start and end parameters are required")
	ErrInvalidDatetime   = errors.Wrap(ErrBadParameter, "invalid start or end datetime format")
	ErrColumnsRequired   = errors.Wrap(ErrBadParameter, "columns are required")
	ErrUsernameRequired  = errors.Wrap(ErrBadParameter, "username is required")
	ErrResetFieldsNeeded = errors.Wrap(ErrBadParameter, "username and new_password are required")
)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], " ")))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error { return ErrBadParameter }

// OrNil returns nil when no field failed.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// PolicyError carries the password policy violations verbatim.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	return "password rejected: " + strings.Join(e.Reasons, " ")
}

func (e *PolicyError) Unwrap() error { return ErrBadParameter }

// InvalidColumnsError lists every requested column missing from the case field registry.
type InvalidColumnsError struct {
	Columns []string
}

func (e *InvalidColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("Invalid columns: [%s]", strings.Join(quoted, ", "))
}

func (e *InvalidColumnsError) Unwrap() error { return ErrBadParameter }

// OperationError is an unexpected fault with a short detail safe to show callers.
type OperationError struct {
	Detail string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	return e.Detail + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }
