// Package auth implements the authentication core: password hashing, token
// issuance/verification, and the registration/login service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/models"
	"github.com/flashdeck/flashdeck/internal/store"
)

var (
	// ErrDuplicateUser is returned when the email or username is taken.
	ErrDuplicateUser = errors.New("user with this email or username already exists")
	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password login failures, so responses cannot reveal whether an
	// email is registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError marks a registration input problem; its message is safe to
// return to clients.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// UserStore is the slice of the store the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service orchestrates registration and login.
type Service struct {
	users  UserStore
	tokens *TokenService
}

func NewService(users UserStore, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterParams is the registration input. Role is optional and defaults to
// models.RoleUser.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register validates input, hashes the password, and creates the user.
// The lookups are only a fast path for a clean error; the store's uniqueness
// constraint is the authoritative duplicate signal under concurrent signups.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	role := p.Role
	if role == "" {
		role = models.RoleUser
	}
	if err := validateRegistration(username, email, p.Password, role); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup by username: %w", err)
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues a token scoped to the user's id and
// role. Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup by email: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID, u.Role)
}

// validateRegistration enforces basic username/email/password/role rules.
func validateRegistration(username, email, password, role string) error {
	if len(username) < 3 || len(username) > 24 {
		return &ValidationError{Reason: "username must be 3-24 chars"}
	}
	for _, r := range username {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return &ValidationError{Reason: "username: letters, numbers, underscore only"}
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return &ValidationError{Reason: "email is invalid"}
	}
	if len(password) < 8 || len(password) > 100 {
		return &ValidationError{Reason: "password must be 8-100 chars"}
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return &ValidationError{Reason: "role must be user or admin"}
	}
	return nil
}
