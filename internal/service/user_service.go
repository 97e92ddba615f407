package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
	"github.com/alexisferrand/cockpit/internal/scope"
	"github.com/alexisferrand/cockpit/internal/security"
)

// CreateUserInput describes a local account to create.
type CreateUserInput struct {
	Username string
	Password string
	Role     domain.Role
	FullName string
	Email    string
}

// UserService covers account administration and authentication.
type UserService struct {
	users      repository.UserRepo
	bcryptCost int
}

func NewUserService(users repository.UserRepo, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Create adds an account. Admin only.
func (s *UserService) Create(ctx context.Context, sc scope.Scope, in CreateUserInput) (*domain.User, error) {
	if sc.User.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins create accounts", ErrForbidden)
	}
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("an account needs a username and a password")
	}
	if !domain.ValidRoles[string(in.Role)] {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}

	hash, err := security.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		FullName:     in.FullName,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if u.FullName == "" {
		u.FullName = in.Username
	}
	if in.Email != "" {
		u.Email = &in.Email
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks a username and password against the stored hash.
// Inactive accounts are rejected.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !u.IsActive || !security.VerifyPassword(password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials")
	}
	return u, nil
}

// GetByUsername resolves the acting user for a command invocation.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}
