package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casetrack/casetrack/internal/model"
)

func TestPasswordPolicy(t *testing.T) {
	user := &model.User{Username: "janedoe", FirstName: "Jane", LastName: "Doe"}

	tests := []struct {
		name      string
		candidate string
		want      []string
	}{
		{"accepted", "tangerine-orbit-42", nil},
		{"short and numeric", "12345", []string{
			"This password is too short. It must contain at least 12 characters.",
			"This password is entirely numeric.",
		}},
		{"common", "mypassword-rocks", []string{"This password is too common."}},
		{"similar to username", "janedoe-2025!", []string{"The password is too similar to the username."}},
		{"too long", strings.Repeat("xk", 40), []string{"This password is too long. It must contain at most 72 bytes."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultPasswordPolicy.Validate(tt.candidate, user)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordPolicyWithoutUser(t *testing.T) {
	assert.Empty(t, DefaultPasswordPolicy.Validate("janedoe-2025!", nil))
}
