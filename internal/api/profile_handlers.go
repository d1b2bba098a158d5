package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{username}",
		Summary:     "Get profile",
		Description: "Returns a public profile with follow counts",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "listProfileArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{username}/articles",
		Summary:     "List profile articles",
		Description: "Returns a writer's articles; drafts only for the writer themselves",
		Tags:        []string{"Profiles"},
	}, s.handleListProfileArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/api/v1/me/profile",
		Summary:     "Update profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// GetProfileInput identifies a profile by username.
type GetProfileInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
}

// ProfileOutput wraps a profile view for Huma.
type ProfileOutput struct {
	Body *service.ProfileView
}

// UpdateProfileInput wraps a profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          service.ProfileUpdate
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)
	view, err := s.services.Profile.GetByUsername(ctx, input.Username, viewerID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: view}, nil
}

func (s *Server) handleListProfileArticles(ctx context.Context, input *GetProfileInput) (*ArticleListOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)

	view, err := s.services.Profile.GetByUsername(ctx, input.Username, viewerID)
	if err != nil {
		return nil, err
	}

	articles, err := s.services.Article.ListByAuthor(ctx, view.ID, viewerID)
	if err != nil {
		return nil, err
	}
	out := &ArticleListOutput{}
	out.Body.Articles = articles
	return out, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*CurrentUserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.Update(ctx, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &CurrentUserOutput{Body: toUserResponse(user)}, nil
}
