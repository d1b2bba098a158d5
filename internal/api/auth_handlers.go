package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register",
		Description: "Creates a new writer account and returns an access token",
		Tags:        []string{"Auth"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Login",
		Description: "Verifies credentials and returns an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// UserResponse contains account data in API responses. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Unique username"`
	Email       string    `json:"email" doc:"Email address"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	AvatarPath  string    `json:"avatar_path,omitempty" doc:"Avatar storage path"`
	Bio         string    `json:"bio,omitempty" doc:"Profile bio"`
	CreatedAt   time.Time `json:"created_at" doc:"Account creation time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarPath:  u.AvatarPath,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
	}
}

// AuthResponse contains the user and their access token.
type AuthResponse struct {
	User  UserResponse `json:"user" doc:"The account"`
	Token string       `json:"token" doc:"PASETO access token"`
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body service.RegisterRequest
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body service.LoginRequest
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// CurrentUserInput contains parameters for the current user endpoint.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// CurrentUserOutput wraps the current user response for Huma.
type CurrentUserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	user, token, err := s.services.Auth.Register(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{User: toUserResponse(user), Token: token}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	user, token, err := s.services.Auth.Login(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{User: toUserResponse(user), Token: token}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*CurrentUserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUserOutput{Body: toUserResponse(user)}, nil
}
