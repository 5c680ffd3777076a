package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/validation"
)

// PasswordResetService implements the username-based reset flow.
type PasswordResetService struct {
	userRepository repository.UserRepository
	policy         validation.PasswordPolicy
}

func NewPasswordResetService(userRepository repository.UserRepository, policy validation.PasswordPolicy) *PasswordResetService {
	return &PasswordResetService{
		userRepository: userRepository,
		policy:         policy,
	}
}

// CheckUserExists reports whether username belongs to an account.
func (s *PasswordResetService) CheckUserExists(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, model.ErrUsernameRequired
	}

	_, err := s.userRepository.ByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// ResetPassword replaces the stored credential when newPassword passes the policy.
// The hash is written with a single UPDATE, so the old one stays on any failure.
func (s *PasswordResetService) ResetPassword(ctx context.Context, username, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || newPassword == "" {
		return model.ErrResetFieldsNeeded
	}

	user, err := s.userRepository.ByUsername(ctx, username)
	if err != nil {
		return err
	}

	reasons := s.policy.Validate(newPassword, user)
	if len(reasons) > 0 {
		return &model.PolicyError{Reasons: reasons}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.userRepository.UpdatePasswordHash(ctx, user.ID, hash)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "password reset", "user_id", user.ID)
	return nil
}
