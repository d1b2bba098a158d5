package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerEngagementRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getEngagement",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{id}/engagement",
		Summary:     "Get engagement",
		Description: "Returns like, comment, and view counts for an article",
		Tags:        []string{"Engagement"},
	}, s.handleGetEngagement)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/like",
		Summary:     "Toggle like",
		Description: "Likes the article, or unlikes it if already liked",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLikers",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{id}/likes",
		Summary:     "List likers",
		Tags:        []string{"Engagement"},
	}, s.handleListLikers)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/comments",
		Summary:     "Add comment",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{id}/comments",
		Summary:     "List comments",
		Tags:        []string{"Engagement"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Description: "Deletes one of the caller's own comments",
		Tags:        []string{"Engagement"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordView",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/view",
		Summary:     "Record view",
		Description: "Records an article view; anonymous viewers send a client-minted UUID",
		Tags:        []string{"Engagement"},
	}, s.handleRecordView)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordShare",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/share",
		Summary:     "Record share",
		Description: "Records an outbound share and returns the platform intent URL",
		Tags:        []string{"Engagement"},
	}, s.handleRecordShare)
}

// === DTOs ===

// EngagementInput identifies an article, with optional viewer auth.
type EngagementInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
}

// EngagementOutput wraps the engagement aggregate for Huma.
type EngagementOutput struct {
	Body *domain.Engagement
}

// ToggleLikeOutput wraps the like toggle response for Huma.
type ToggleLikeOutput struct {
	Body struct {
		Liked      bool               `json:"liked" doc:"Resulting liked state"`
		Engagement *domain.Engagement `json:"engagement" doc:"Fresh aggregate"`
	}
}

// LikersOutput wraps the likers list for Huma.
type LikersOutput struct {
	Body struct {
		Likers []*domain.Liker `json:"likers" doc:"Users who liked, most recent first"`
	}
}

// AddCommentInput wraps a comment draft for Huma.
type AddCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          domain.CommentDraft
}

// CommentOutput wraps a single comment for Huma.
type CommentOutput struct {
	Body *domain.Comment
}

// CommentsOutput wraps a comment list for Huma.
type CommentsOutput struct {
	Body struct {
		Comments []*domain.Comment `json:"comments" doc:"Comments, newest first"`
	}
}

// DeleteCommentInput identifies a comment to delete.
type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Comment ID"`
}

// RecordViewInput carries the optional anonymous viewer ID.
type RecordViewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          struct {
		AnonID string `json:"anon_id,omitempty" doc:"Client-minted anonymous viewer UUID"`
	}
}

// RecordShareInput carries the share platform.
type RecordShareInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          struct {
		Platform domain.SharePlatform `json:"platform" doc:"Share target platform"`
	}
}

// RecordShareOutput wraps the share response for Huma.
type RecordShareOutput struct {
	Body struct {
		IntentURL string `json:"intent_url" doc:"Platform share-intent URL"`
	}
}

// === Handlers ===

func (s *Server) handleGetEngagement(ctx context.Context, input *EngagementInput) (*EngagementOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)
	engagement, err := s.services.Engagement.Engagement(ctx, input.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &EngagementOutput{Body: engagement}, nil
}

func (s *Server) handleToggleLike(ctx context.Context, input *EngagementInput) (*ToggleLikeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	liked, engagement, err := s.services.Engagement.ToggleLike(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	out := &ToggleLikeOutput{}
	out.Body.Liked = liked
	out.Body.Engagement = engagement
	return out, nil
}

func (s *Server) handleListLikers(ctx context.Context, input *EngagementInput) (*LikersOutput, error) {
	likers, err := s.services.Engagement.Likers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &LikersOutput{}
	out.Body.Likers = likers
	return out, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Engagement.AddComment(ctx, input.ID, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *EngagementInput) (*CommentsOutput, error) {
	comments, err := s.services.Engagement.Comments(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	out := &CommentsOutput{}
	out.Body.Comments = comments
	return out, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Engagement.DeleteComment(ctx, input.ID, userID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleRecordView(ctx context.Context, input *RecordViewInput) (*struct{}, error) {
	viewerID := s.maybeUserID(input.Authorization)
	if err := s.services.Engagement.RecordView(ctx, input.ID, viewerID, input.Body.AnonID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleRecordShare(ctx context.Context, input *RecordShareInput) (*RecordShareOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)
	intentURL, err := s.services.Engagement.RecordShare(ctx, input.ID, viewerID, input.Body.Platform)
	if err != nil {
		return nil, err
	}
	out := &RecordShareOutput{}
	out.Body.IntentURL = intentURL
	return out, nil
}
