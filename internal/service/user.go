package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/validation"
)

// CreateUserInput is the payload for registering an account.
type CreateUserInput struct {
	Username    string `json:"username" validate:"required,max=150"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"fname" validate:"max=150"`
	LastName    string `json:"lname" validate:"max=150"`
	Role        *int64 `json:"role"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UserService struct {
	userRepository repository.UserRepository
	roleRepository repository.LookupRepository
	policy         validation.PasswordPolicy
}

func NewUserService(userRepository repository.UserRepository, roleRepository repository.LookupRepository, policy validation.PasswordPolicy) *UserService {
	return &UserService{
		userRepository: userRepository,
		roleRepository: roleRepository,
		policy:         policy,
	}
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepository.List(ctx)
}

// Create validates the input, applies the password policy and stores the account.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	fields := model.FieldErrors{}
	if err := validation.Struct(in); err != nil {
		if !errors.As(err, &fields) {
			return nil, err
		}
	}

	if in.Role != nil {
		exists, err := s.roleRepository.Exists(ctx, *in.Role)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields.Add("role", invalidPKMessage(*in.Role))
		}
	}

	user := &model.User{
		Username:    in.Username,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		RoleID:      in.Role,
		IsActive:    true,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
		CreatedAt:   time.Now(),
	}

	if in.Password != "" {
		for _, reason := range s.policy.Validate(in.Password, user) {
			fields.Add("password", reason)
		}
	}

	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}
