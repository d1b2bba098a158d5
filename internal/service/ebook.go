package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
	"github.com/inkwellapp/inkwell-server/internal/storage"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/util"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// EbookService manages ebook submissions, publication, and purchases.
type EbookService struct {
	store     *sqlite.Store
	sheets    *sheets.Client
	validator *validation.Validator
	logger    *slog.Logger
	baseURL   string
}

// NewEbookService creates a new ebook service. baseURL is the public server
// URL used to build file links for the submission mirror.
func NewEbookService(store *sqlite.Store, sheetsClient *sheets.Client, validator *validation.Validator, logger *slog.Logger, baseURL string) *EbookService {
	return &EbookService{
		store:     store,
		sheets:    sheetsClient,
		validator: validator,
		logger:    logger,
		baseURL:   baseURL,
	}
}

// Submit validates a draft and stores it as an unpublished ebook. The slug
// is derived from the title at submission time and never changes. The
// submission is mirrored to the editorial spreadsheet when one is
// configured; mirror failures never block the submission.
func (s *EbookService) Submit(ctx context.Context, authorID string, draft *domain.EbookDraft) (*domain.Ebook, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, draft.Title)
	if err != nil {
		return nil, err
	}

	ebookID, err := id.Generate("ebk")
	if err != nil {
		return nil, fmt.Errorf("generating ebook id: %w", err)
	}

	now := time.Now().UTC()
	ebook := &domain.Ebook{
		ID:          ebookID,
		AuthorID:    authorID,
		Title:       strings.TrimSpace(draft.Title),
		Slug:        slug,
		Description: strings.TrimSpace(draft.Description),
		PriceCents:  draft.PriceCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateEbook(ctx, ebook); err != nil {
		return nil, fmt.Errorf("creating ebook: %w", err)
	}

	s.mirrorSubmission(ctx, ebook)

	s.logger.Info("ebook submitted", "ebook_id", ebook.ID, "author_id", authorID, "slug", ebook.Slug)
	return ebook, nil
}

// SetFiles attaches uploaded cover and file storage paths to an ebook.
// Either argument may be empty to leave that path unchanged.
func (s *EbookService) SetFiles(ctx context.Context, ebookID, authorID, coverPath, filePath string) (*domain.Ebook, error) {
	ebook, err := s.store.GetEbook(ctx, ebookID)
	if err != nil {
		return nil, err
	}
	if ebook.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can modify this ebook")
	}

	if coverPath != "" {
		ebook.CoverPath = coverPath
	}
	if filePath != "" {
		ebook.FilePath = filePath
	}
	ebook.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEbook(ctx, ebook); err != nil {
		return nil, fmt.Errorf("updating ebook: %w", err)
	}
	return ebook, nil
}

// Publish lists an ebook for sale. The ebook must have a file attached.
// Publishing twice is a no-op.
func (s *EbookService) Publish(ctx context.Context, ebookID, authorID string) (*domain.Ebook, error) {
	ebook, err := s.store.GetEbook(ctx, ebookID)
	if err != nil {
		return nil, err
	}
	if ebook.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can publish this ebook")
	}
	if ebook.Published {
		return ebook, nil
	}
	if ebook.FilePath == "" {
		return nil, errors.Validation("attach the ebook file before publishing")
	}

	ebook.Published = true
	ebook.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEbook(ctx, ebook); err != nil {
		return nil, fmt.Errorf("publishing ebook: %w", err)
	}

	s.logger.Info("ebook published", "ebook_id", ebook.ID, "author_id", authorID)
	return ebook, nil
}

// GetBySlug returns a published ebook, or an unpublished one when the
// viewer is its author.
func (s *EbookService) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Ebook, error) {
	ebook, err := s.store.GetEbookBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ebook.Published && ebook.AuthorID != viewerID {
		return nil, store.ErrNotFound
	}
	return ebook, nil
}

// ListPublished returns the storefront listing, newest first.
func (s *EbookService) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Ebook, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListPublishedEbooks(ctx, limit, offset)
}

// ListByAuthor returns an author's ebooks. Unpublished ones are included
// only when the viewer is the author.
func (s *EbookService) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Ebook, error) {
	return s.store.ListEbooksByAuthor(ctx, authorID, authorID == viewerID)
}

// Purchase records a user buying an ebook at its current price. A user buys
// an ebook at most once and never their own.
func (s *EbookService) Purchase(ctx context.Context, ebookID, buyerID string) (*domain.EbookPurchase, error) {
	ebook, err := s.store.GetEbook(ctx, ebookID)
	if err != nil {
		return nil, err
	}
	if !ebook.Published {
		return nil, store.ErrNotFound
	}
	if ebook.AuthorID == buyerID {
		return nil, errors.Validation("you cannot buy your own ebook")
	}

	purchaseID, err := id.Generate("pur")
	if err != nil {
		return nil, fmt.Errorf("generating purchase id: %w", err)
	}

	purchase := &domain.EbookPurchase{
		ID:         purchaseID,
		EbookID:    ebookID,
		BuyerID:    buyerID,
		PriceCents: ebook.PriceCents,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.CreateEbookPurchase(ctx, purchase); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("you already own this ebook")
		}
		return nil, fmt.Errorf("creating purchase: %w", err)
	}

	s.logger.Info("ebook purchased", "ebook_id", ebookID, "buyer_id", buyerID, "price_cents", purchase.PriceCents)
	return purchase, nil
}

// Library returns the ebooks a user has purchased, newest purchase first.
func (s *EbookService) Library(ctx context.Context, buyerID string) ([]*domain.Ebook, error) {
	purchases, err := s.store.ListPurchasesByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}

	ebooks := make([]*domain.Ebook, 0, len(purchases))
	for _, p := range purchases {
		ebook, err := s.store.GetEbook(ctx, p.EbookID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		ebooks = append(ebooks, ebook)
	}
	return ebooks, nil
}

// HasPurchased reports whether the user owns the ebook. Authors own their
// own ebooks implicitly.
func (s *EbookService) HasPurchased(ctx context.Context, ebookID, userID string) (bool, error) {
	ebook, err := s.store.GetEbook(ctx, ebookID)
	if err != nil {
		return false, err
	}
	if ebook.AuthorID == userID {
		return true, nil
	}
	return s.store.HasPurchased(ctx, ebookID, userID)
}

// Sales returns how many copies an ebook has sold. Only the author may ask.
func (s *EbookService) Sales(ctx context.Context, ebookID, authorID string) (int, error) {
	ebook, err := s.store.GetEbook(ctx, ebookID)
	if err != nil {
		return 0, err
	}
	if ebook.AuthorID != authorID {
		return 0, errors.Forbidden("only the author can view sales")
	}
	return s.store.CountEbookSales(ctx, ebookID)
}

// mirrorSubmission sends the submission row to the editorial spreadsheet.
// Failures are logged only; the backend is a side channel, not a system of
// record.
func (s *EbookService) mirrorSubmission(ctx context.Context, ebook *domain.Ebook) {
	if !s.sheets.Enabled() {
		return
	}

	author, err := s.store.GetUser(ctx, ebook.AuthorID)
	if err != nil {
		s.logger.Error("loading author for submission mirror", "ebook_id", ebook.ID, "error", err)
		return
	}

	var coverURL, fileURL string
	if ebook.CoverPath != "" {
		coverURL = storage.PublicURL(s.baseURL, ebook.CoverPath)
	}
	if ebook.FilePath != "" {
		fileURL = storage.PublicURL(s.baseURL, ebook.FilePath)
	}

	if err := s.sheets.SubmitEbook(ctx, ebook, author, coverURL, fileURL); err != nil {
		s.logger.Error("mirroring ebook submission", "ebook_id", ebook.ID, "error", err)
	}
}

// uniqueSlug slugifies the title and probes numeric suffixes until the slug
// is free in the ebook namespace.
func (s *EbookService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		return "", errors.Validation("title produces an empty slug")
	}

	slug := base
	for n := 1; ; n++ {
		exists, err := s.store.EbookSlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		if n > slugProbeLimit {
			return "", errors.Conflict("could not find a free slug for this title")
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
