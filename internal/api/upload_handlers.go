package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/inkwellapp/inkwell-server/internal/storage"
)

const (
	maxImageUploadBytes = 10 << 20
	maxEbookUploadBytes = 50 << 20
)

func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadArticleCover",
		Method:       http.MethodPost,
		Path:         "/api/v1/articles/{id}/cover",
		Summary:      "Upload article cover",
		Description:  "Uploads a cover image (JPEG, PNG, or WebP) for an article",
		Tags:         []string{"Uploads"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: maxImageUploadBytes,
	}, s.handleUploadArticleCover)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadAvatar",
		Method:       http.MethodPost,
		Path:         "/api/v1/me/avatar",
		Summary:      "Upload avatar",
		Description:  "Uploads a new avatar image for the caller",
		Tags:         []string{"Uploads"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: maxImageUploadBytes,
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadEbookCover",
		Method:       http.MethodPost,
		Path:         "/api/v1/ebooks/{id}/cover",
		Summary:      "Upload ebook cover",
		Tags:         []string{"Uploads"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: maxImageUploadBytes,
	}, s.handleUploadEbookCover)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadEbookFile",
		Method:       http.MethodPost,
		Path:         "/api/v1/ebooks/{id}/file",
		Summary:      "Upload ebook file",
		Description:  "Uploads the sellable ebook file (EPUB or PDF)",
		Tags:         []string{"Uploads"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: maxEbookUploadBytes,
	}, s.handleUploadEbookFile)
}

// === DTOs ===

// UploadInput carries raw file bytes for an owned resource.
type UploadInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Resource ID"`
	RawBody       []byte
}

// AvatarUploadInput carries raw avatar image bytes.
type AvatarUploadInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte
}

// CoverOutput describes a stored cover image.
type CoverOutput struct {
	Body struct {
		Path     string `json:"path" doc:"Stored path, servable under /files/"`
		BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
	}
}

// === Handlers ===

func (s *Server) handleUploadArticleCover(ctx context.Context, input *UploadInput) (*CoverOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(input.RawBody)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	key := fmt.Sprintf("%s-%d%s", input.ID, time.Now().UnixMilli(), ext)
	if err := s.buckets.Covers.Save(key, input.RawBody); err != nil {
		return nil, fmt.Errorf("saving cover: %w", err)
	}

	article, err := s.services.Article.SetCover(ctx, input.ID, userID, s.buckets.Covers.StoragePath(key))
	if err != nil {
		if cleanupErr := s.buckets.Covers.Delete(key); cleanupErr != nil {
			s.logger.Warn("failed to clean up cover after update error", "key", key, "error", cleanupErr)
		}
		return nil, err
	}

	out := &CoverOutput{}
	out.Body.Path = article.CoverPath
	out.Body.BlurHash = s.blurHashFor(input.RawBody, key)
	return out, nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *AvatarUploadInput) (*CurrentUserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(input.RawBody)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	user, err := s.services.Profile.SetAvatar(ctx, userID, input.RawBody, ext)
	if err != nil {
		return nil, err
	}
	return &CurrentUserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleUploadEbookCover(ctx context.Context, input *UploadInput) (*CoverOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ext, err := imageExtension(input.RawBody)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	key := fmt.Sprintf("%s-cover-%d%s", input.ID, time.Now().UnixMilli(), ext)
	if err := s.buckets.Covers.Save(key, input.RawBody); err != nil {
		return nil, fmt.Errorf("saving cover: %w", err)
	}

	ebook, err := s.services.Ebook.SetFiles(ctx, input.ID, userID, s.buckets.Covers.StoragePath(key), "")
	if err != nil {
		if cleanupErr := s.buckets.Covers.Delete(key); cleanupErr != nil {
			s.logger.Warn("failed to clean up cover after update error", "key", key, "error", cleanupErr)
		}
		return nil, err
	}

	out := &CoverOutput{}
	out.Body.Path = ebook.CoverPath
	out.Body.BlurHash = s.blurHashFor(input.RawBody, key)
	return out, nil
}

func (s *Server) handleUploadEbookFile(ctx context.Context, input *UploadInput) (*EbookOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	ext, err := ebookExtension(input.RawBody)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	key := fmt.Sprintf("%s-%d%s", input.ID, time.Now().UnixMilli(), ext)
	if err := s.buckets.Ebooks.Save(key, input.RawBody); err != nil {
		return nil, fmt.Errorf("saving ebook file: %w", err)
	}

	ebook, err := s.services.Ebook.SetFiles(ctx, input.ID, userID, "", s.buckets.Ebooks.StoragePath(key))
	if err != nil {
		if cleanupErr := s.buckets.Ebooks.Delete(key); cleanupErr != nil {
			s.logger.Warn("failed to clean up ebook file after update error", "key", key, "error", cleanupErr)
		}
		return nil, err
	}
	return &EbookOutput{Body: ebook}, nil
}

// blurHashFor computes a BlurHash placeholder for an uploaded image. Failure
// is non-fatal; the client just renders without a placeholder.
func (s *Server) blurHashFor(imgData []byte, key string) string {
	hash, err := storage.ComputeBlurHash(imgData)
	if err != nil {
		s.logger.Warn("failed to compute blurhash", "key", key, "error", err)
		return ""
	}
	return hash
}

// imageExtension sniffs the upload and returns the file extension for
// accepted image formats.
func imageExtension(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported image format; use JPEG, PNG, or WebP")
	}
}

// ebookExtension sniffs the upload and returns the file extension for
// accepted ebook formats. EPUB is a zip container, so zip is accepted as
// EPUB here.
func ebookExtension(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "application/pdf":
		return ".pdf", nil
	case "application/zip":
		return ".epub", nil
	default:
		return "", fmt.Errorf("unsupported ebook format; use EPUB or PDF")
	}
}

// handleServeFile streams a stored asset. Sits outside huma so responses
// aren't forced through JSON serialization. Ebook files are paid content
// and are never served here; they go through the purchase-gated download.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	bucketName := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "key")

	var bucket *storage.Bucket
	switch bucketName {
	case storage.BucketCovers:
		bucket = s.buckets.Covers
	case storage.BucketAvatars:
		bucket = s.buckets.Avatars
	default:
		http.Error(w, "unknown bucket", http.StatusNotFound)
		return
	}

	data, err := bucket.Get(key)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}
