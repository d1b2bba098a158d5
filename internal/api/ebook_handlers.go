package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/storage"
)

func (s *Server) registerEbookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submitEbook",
		Method:      http.MethodPost,
		Path:        "/api/v1/ebooks",
		Summary:     "Submit ebook",
		Description: "Submits a new ebook; the submission is mirrored to the editorial sheet",
		Tags:        []string{"Ebooks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitEbook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listEbooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/ebooks",
		Summary:     "List ebooks",
		Description: "Returns the storefront listing, newest first",
		Tags:        []string{"Ebooks"},
	}, s.handleListEbooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEbook",
		Method:      http.MethodGet,
		Path:        "/api/v1/ebooks/{slug}",
		Summary:     "Get ebook",
		Tags:        []string{"Ebooks"},
	}, s.handleGetEbook)

	huma.Register(s.api, huma.Operation{
		OperationID: "publishEbook",
		Method:      http.MethodPost,
		Path:        "/api/v1/ebooks/{id}/publish",
		Summary:     "Publish ebook",
		Tags:        []string{"Ebooks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePublishEbook)

	huma.Register(s.api, huma.Operation{
		OperationID: "purchaseEbook",
		Method:      http.MethodPost,
		Path:        "/api/v1/ebooks/{id}/purchase",
		Summary:     "Purchase ebook",
		Tags:        []string{"Ebooks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePurchaseEbook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEbookSales",
		Method:      http.MethodGet,
		Path:        "/api/v1/ebooks/{id}/sales",
		Summary:     "Ebook sales",
		Description: "Returns the sales count; author only",
		Tags:        []string{"Ebooks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetEbookSales)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/library",
		Summary:     "My library",
		Description: "Returns the ebooks the caller has purchased",
		Tags:        []string{"Ebooks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibrary)

	// Binary download, purchase-gated; served with chi so the file bytes
	// stream straight through.
	s.router.Get("/api/v1/ebooks/{id}/download", s.handleDownloadEbook)
}

// === DTOs ===

// SubmitEbookInput wraps an ebook draft for Huma.
type SubmitEbookInput struct {
	Authorization string `header:"Authorization"`
	Body          domain.EbookDraft
}

// EbookOutput wraps a single ebook for Huma.
type EbookOutput struct {
	Body *domain.Ebook
}

// ListEbooksInput contains pagination parameters.
type ListEbooksInput struct {
	Limit  int `query:"limit" doc:"Page size (max 50)"`
	Offset int `query:"offset" doc:"Page offset"`
}

// EbookListOutput wraps an ebook list for Huma.
type EbookListOutput struct {
	Body struct {
		Ebooks []*domain.Ebook `json:"ebooks" doc:"Ebooks, newest first"`
	}
}

// GetEbookInput identifies an ebook by slug.
type GetEbookInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Ebook slug"`
}

// EbookIDInput identifies an ebook for authenticated operations.
type EbookIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Ebook ID"`
}

// PurchaseOutput wraps a purchase record for Huma.
type PurchaseOutput struct {
	Body *domain.EbookPurchase
}

// SalesOutput wraps the sales count for Huma.
type SalesOutput struct {
	Body struct {
		Sales int `json:"sales" doc:"Copies sold"`
	}
}

// === Handlers ===

func (s *Server) handleSubmitEbook(ctx context.Context, input *SubmitEbookInput) (*EbookOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ebook, err := s.services.Ebook.Submit(ctx, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &EbookOutput{Body: ebook}, nil
}

func (s *Server) handleListEbooks(ctx context.Context, input *ListEbooksInput) (*EbookListOutput, error) {
	ebooks, err := s.services.Ebook.ListPublished(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	out := &EbookListOutput{}
	out.Body.Ebooks = ebooks
	return out, nil
}

func (s *Server) handleGetEbook(ctx context.Context, input *GetEbookInput) (*EbookOutput, error) {
	viewerID := s.maybeUserID(input.Authorization)
	ebook, err := s.services.Ebook.GetBySlug(ctx, input.Slug, viewerID)
	if err != nil {
		return nil, err
	}
	return &EbookOutput{Body: ebook}, nil
}

func (s *Server) handlePublishEbook(ctx context.Context, input *EbookIDInput) (*EbookOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ebook, err := s.services.Ebook.Publish(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &EbookOutput{Body: ebook}, nil
}

func (s *Server) handlePurchaseEbook(ctx context.Context, input *EbookIDInput) (*PurchaseOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	purchase, err := s.services.Ebook.Purchase(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOutput{Body: purchase}, nil
}

func (s *Server) handleGetEbookSales(ctx context.Context, input *EbookIDInput) (*SalesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	sales, err := s.services.Ebook.Sales(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	out := &SalesOutput{}
	out.Body.Sales = sales
	return out, nil
}

func (s *Server) handleListLibrary(ctx context.Context, input *NotificationsInput) (*EbookListOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ebooks, err := s.services.Ebook.Library(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &EbookListOutput{}
	out.Body.Ebooks = ebooks
	return out, nil
}

// handleDownloadEbook streams the ebook file to a buyer (or the author).
// The token can ride in the query string so plain download links work.
func (s *Server) handleDownloadEbook(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveStreamUser(r)
	if userID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	ebookID := chi.URLParam(r, "id")
	ebook, err := s.store.GetEbook(r.Context(), ebookID)
	if err != nil {
		http.Error(w, "ebook not found", http.StatusNotFound)
		return
	}

	owned, err := s.services.Ebook.HasPurchased(r.Context(), ebookID, userID)
	if err != nil || !owned {
		http.Error(w, "purchase required", http.StatusForbidden)
		return
	}

	key, ok := strings.CutPrefix(ebook.FilePath, storage.BucketEbooks+"/")
	if !ok {
		http.Error(w, "ebook has no file", http.StatusNotFound)
		return
	}

	data, err := s.buckets.Ebooks.Get(key)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}
