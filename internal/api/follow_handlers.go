package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerFollowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFollow",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Toggle follow",
		Description: "Follows the user, or unfollows if already following",
		Tags:        []string{"Follows"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Tags:        []string{"Follows"},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Tags:        []string{"Follows"},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowInput identifies the target user.
type FollowInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
}

// ToggleFollowOutput wraps the follow toggle response for Huma.
type ToggleFollowOutput struct {
	Body struct {
		Following bool `json:"following" doc:"Resulting follow state"`
	}
}

// FollowListInput identifies the user whose edges to list.
type FollowListInput struct {
	ID string `path:"id" doc:"User ID"`
}

// ProfileListOutput wraps a profile list for Huma.
type ProfileListOutput struct {
	Body struct {
		Profiles []*domain.Profile `json:"profiles" doc:"Profiles, most recent first"`
	}
}

// === Handlers ===

func (s *Server) handleToggleFollow(ctx context.Context, input *FollowInput) (*ToggleFollowOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	following, err := s.services.Follow.Toggle(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	out := &ToggleFollowOutput{}
	out.Body.Following = following
	return out, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *FollowListInput) (*ProfileListOutput, error) {
	profiles, err := s.services.Follow.Followers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &ProfileListOutput{}
	out.Body.Profiles = profiles
	return out, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *FollowListInput) (*ProfileListOutput, error) {
	profiles, err := s.services.Follow.Following(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &ProfileListOutput{}
	out.Body.Profiles = profiles
	return out, nil
}
