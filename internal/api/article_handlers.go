package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/search"
)

func (s *Server) registerArticleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles",
		Summary:     "Create article",
		Description: "Creates a new draft article",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles",
		Summary:     "List articles",
		Description: "Returns the public feed, newest published first",
		Tags:        []string{"Articles"},
	}, s.handleListArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchArticles",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/search",
		Summary:     "Search articles",
		Description: "Full-text search over published articles",
		Tags:        []string{"Articles"},
	}, s.handleSearchArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArticle",
		Method:      http.MethodGet,
		Path:        "/api/v1/articles/{slug}",
		Summary:     "Get article",
		Description: "Returns a published article by slug",
		Tags:        []string{"Articles"},
	}, s.handleGetArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArticle",
		Method:      http.MethodPut,
		Path:        "/api/v1/articles/{id}",
		Summary:     "Update article",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "publishArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/publish",
		Summary:     "Publish article",
		Description: "Publishes a draft and notifies the author's followers",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePublishArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "unpublishArticle",
		Method:      http.MethodPost,
		Path:        "/api/v1/articles/{id}/unpublish",
		Summary:     "Unpublish article",
		Description: "Pulls a published article back to draft",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnpublishArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArticle",
		Method:      http.MethodDelete,
		Path:        "/api/v1/articles/{id}",
		Summary:     "Delete article",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns every tag with its article count",
		Tags:        []string{"Articles"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArticlesByTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{name}/articles",
		Summary:     "List articles by tag",
		Tags:        []string{"Articles"},
	}, s.handleListArticlesByTag)
}

// === DTOs ===

// CreateArticleInput wraps the article draft for Huma.
type CreateArticleInput struct {
	Authorization string `header:"Authorization"`
	Body          domain.ArticleDraft
}

// ArticleOutput wraps a single article for Huma.
type ArticleOutput struct {
	Body *domain.Article
}

// ListArticlesInput contains pagination parameters.
type ListArticlesInput struct {
	Limit  int `query:"limit" doc:"Page size (max 50)"`
	Offset int `query:"offset" doc:"Page offset"`
}

// ArticleListOutput wraps an article list for Huma.
type ArticleListOutput struct {
	Body struct {
		Articles []*domain.Article `json:"articles" doc:"Articles, newest first"`
	}
}

// GetArticleInput contains parameters for fetching one article.
type GetArticleInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Article slug"`
}

// UpdateArticleInput wraps an article update for Huma.
type UpdateArticleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          domain.ArticleDraft
}

// ArticleIDInput identifies an article for publish and delete.
type ArticleIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
}

// SearchArticlesInput contains full-text search parameters.
type SearchArticlesInput struct {
	Query  string   `query:"q" doc:"Search query"`
	Tags   []string `query:"tag" doc:"Tag filters (AND semantics)"`
	Sort   string   `query:"sort" enum:"relevance,recent" doc:"Sort order"`
	Limit  int      `query:"limit" doc:"Page size (max 50)"`
	Offset int      `query:"offset" doc:"Page offset"`
}

// SearchArticlesOutput wraps search results for Huma.
type SearchArticlesOutput struct {
	Body *search.Result
}

// TagListOutput wraps a tag list for Huma.
type TagListOutput struct {
	Body struct {
		Tags []*domain.Tag `json:"tags" doc:"All tags"`
	}
}

// TagArticlesInput identifies a tag by name.
type TagArticlesInput struct {
	Name string `path:"name" doc:"Tag name"`
}

// === Handlers ===

func (s *Server) handleCreateArticle(ctx context.Context, input *CreateArticleInput) (*ArticleOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Create(ctx, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &ArticleOutput{Body: article}, nil
}

func (s *Server) handleListArticles(ctx context.Context, input *ListArticlesInput) (*ArticleListOutput, error) {
	articles, err := s.services.Article.ListPublished(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	out := &ArticleListOutput{}
	out.Body.Articles = articles
	return out, nil
}

func (s *Server) handleGetArticle(ctx context.Context, input *GetArticleInput) (*ArticleOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)
	article, err := s.services.Article.GetBySlug(ctx, input.Slug, viewerID)
	if err != nil {
		return nil, err
	}
	return &ArticleOutput{Body: article}, nil
}

func (s *Server) handleUpdateArticle(ctx context.Context, input *UpdateArticleInput) (*ArticleOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Update(ctx, input.ID, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &ArticleOutput{Body: article}, nil
}

func (s *Server) handlePublishArticle(ctx context.Context, input *ArticleIDInput) (*ArticleOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Publish(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ArticleOutput{Body: article}, nil
}

func (s *Server) handleUnpublishArticle(ctx context.Context, input *ArticleIDInput) (*ArticleOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Unpublish(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ArticleOutput{Body: article}, nil
}

func (s *Server) handleDeleteArticle(ctx context.Context, input *ArticleIDInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSearchArticles(ctx context.Context, input *SearchArticlesInput) (*SearchArticlesOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Tags = input.Tags
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Limit > 0 && input.Limit <= 50 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}

	result, err := s.services.Article.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchArticlesOutput{Body: result}, nil
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Article.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := &TagListOutput{}
	out.Body.Tags = tags
	return out, nil
}

func (s *Server) handleListArticlesByTag(ctx context.Context, input *TagArticlesInput) (*ArticleListOutput, error) {
	articles, err := s.services.Article.ListByTag(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	out := &ArticleListOutput{}
	out.Body.Articles = articles
	return out, nil
}
