package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// RegisterRequest is the validated input for creating an account.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
}

// LoginRequest is the validated input for logging in. Identifier may be a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthService handles registration, login, and token issuance.
type AuthService struct {
	store     *sqlite.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *sqlite.Store, tokens *auth.TokenService, validator *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// Register creates a new account and returns the user with a fresh access
// token. Usernames and emails are stored lowercased.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*domain.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, "", fmt.Errorf("generating user id: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           userID,
		Username:     strings.ToLower(req.Username),
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, "", errors.AlreadyExists("username or email is already taken")
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh access
// token. Lookup failures and password mismatches both report invalid
// credentials so callers can't probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*domain.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	user, err := s.lookupUser(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", errors.InvalidCredentials("invalid username or password")
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, "", errors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// VerifyToken resolves an access token to its claims.
func (s *AuthService) VerifyToken(token string) (*auth.AccessClaims, error) {
	return s.tokens.VerifyAccessToken(token)
}

// lookupUser resolves an identifier to a user, treating anything with an @
// as an email.
func (s *AuthService) lookupUser(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if strings.Contains(identifier, "@") {
		return s.store.GetUserByEmail(ctx, identifier)
	}
	return s.store.GetUserByUsername(ctx, identifier)
}
