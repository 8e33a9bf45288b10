// Package service implements authentication and user management.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"leaddesk_backend/internal/auth/repository"
	"leaddesk_backend/internal/auth/token"
	"leaddesk_backend/internal/auth/transport"
	"leaddesk_backend/internal/roles"
	"leaddesk_backend/platform/apperr"
	"leaddesk_backend/platform/config"
	"leaddesk_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "invalid email or password"

// Passwords need at least six alphanumeric characters with at least one
// letter and one digit.
var passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{6,}$`)

// Service handles login and user administration.
type Service struct {
	repo repository.UserRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates an auth service.
func New(repo repository.UserRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues an access token. Bad email and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !user.IsActive {
		s.log.AuthEvent("login", email, false, "account deactivated")
		return transport.LoginResponse{}, apperr.Forbidden("account deactivated")
	}

	signed, err := token.IssueAccess(user.ID, user.Role, s.cfg.GetJWTAccessSecret(), s.cfg.GetAccessTokenTTL())
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "token issuance failed", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return transport.LoginResponse{Token: signed, User: toUserResponse(user)}, nil
}

// CreateUser registers a new user. Admin only (enforced at the route).
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = roles.Employee
	}
	if !roles.Valid(role) {
		return transport.UserResponse{}, apperr.Validation("role must be one of: employee, manager, admin")
	}

	if !passwordPattern.MatchString(password) ||
		!strings.ContainsAny(password, "0123456789") ||
		strings.IndexFunc(password, isLetter) < 0 {
		return transport.UserResponse{}, apperr.Validation(
			"password must be at least 6 characters long and contain at least one letter and one number")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "password hashing failed", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.UserResponse{}, apperr.Conflict("user with this email already exists")
		}
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "create user failed", err)
	}

	s.log.Info("user created", "userId", user.ID, "role", user.Role)
	return toUserResponse(user), nil
}

// GetByID returns one user.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "get user failed", err)
	}
	return toUserResponse(user), nil
}

// ListUsers returns all users. Admin only (enforced at the route).
func (s *Service) ListUsers(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list users failed", err)
	}

	out := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out, nil
}

// DeactivateUser disables a user account. Admin only (enforced at the route).
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetUserActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Wrap(apperr.KindInternal, "deactivate user failed", err)
	}
	return nil
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
