// Package service implements the application logic of the Inkwell platform
// on top of the persistence and infrastructure layers.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/util"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// excerptMaxLen caps auto-derived excerpts. Bounds chosen to fit the card
// layouts the web client renders.
const excerptMaxLen = 280

// slugProbeLimit bounds how many numeric suffixes slug generation tries
// before giving up.
const slugProbeLimit = 100

// ArticleService manages article drafting, publication, and search.
type ArticleService struct {
	store     *sqlite.Store
	index     *search.Index
	validator *validation.Validator
	realtime  *realtime.Manager
	logger    *slog.Logger
}

// NewArticleService creates a new article service.
func NewArticleService(store *sqlite.Store, index *search.Index, validator *validation.Validator, rt *realtime.Manager, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		store:     store,
		index:     index,
		validator: validator,
		realtime:  rt,
		logger:    logger,
	}
}

// Create validates a draft and stores it as an unpublished article.
// The slug is derived from the title at creation time and never changes
// afterwards, even if the title does.
func (s *ArticleService) Create(ctx context.Context, authorID string, draft *domain.ArticleDraft) (*domain.Article, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, draft.Title)
	if err != nil {
		return nil, err
	}

	articleID, err := id.Generate("art")
	if err != nil {
		return nil, fmt.Errorf("generating article id: %w", err)
	}

	now := time.Now().UTC()
	article := &domain.Article{
		ID:        articleID,
		AuthorID:  authorID,
		Title:     strings.TrimSpace(draft.Title),
		Slug:      slug,
		Content:   draft.Content,
		Excerpt:   s.deriveExcerpt(draft),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	if err := s.applyTags(ctx, article, draft.Tags); err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"article_id", article.ID,
		"author_id", authorID,
		"slug", article.Slug,
	)

	return article, nil
}

// Update applies a new draft to an existing article. Only the author may
// update it. The slug stays fixed so published links never break.
func (s *ArticleService) Update(ctx context.Context, articleID, authorID string, draft *domain.ArticleDraft) (*domain.Article, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can edit this article")
	}

	article.Title = strings.TrimSpace(draft.Title)
	article.Content = draft.Content
	article.Excerpt = s.deriveExcerpt(draft)
	article.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}

	if err := s.applyTags(ctx, article, draft.Tags); err != nil {
		return nil, err
	}

	if article.Published {
		s.reindex(article)
	}

	return article, nil
}

// Publish flips an article from draft to published, indexes it for search,
// and notifies the author's followers. Publishing twice is a no-op.
func (s *ArticleService) Publish(ctx context.Context, articleID, authorID string) (*domain.Article, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can publish this article")
	}
	if article.Published {
		return s.attachProjections(ctx, article)
	}

	now := time.Now().UTC()
	article.Published = true
	article.PublishedAt = &now
	article.UpdatedAt = now

	if err := s.store.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("publishing article: %w", err)
	}

	article, err = s.attachProjections(ctx, article)
	if err != nil {
		return nil, err
	}

	s.reindex(article)

	if err := s.notifyFollowers(ctx, article); err != nil {
		// Fan-out failure must not roll back publication.
		s.logger.Error("follower fan-out failed", "article_id", article.ID, "error", err)
	}

	s.realtime.Emit(realtime.NewArticlePublishedEvent(article))

	s.logger.Info("article published",
		"article_id", article.ID,
		"author_id", authorID,
		"slug", article.Slug,
	)

	return article, nil
}

// Unpublish pulls a published article back to draft and drops its search
// document. Existing engagement rows stay; only visibility changes.
// Unpublishing a draft is a no-op.
func (s *ArticleService) Unpublish(ctx context.Context, articleID, authorID string) (*domain.Article, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can unpublish this article")
	}
	if !article.Published {
		return s.attachProjections(ctx, article)
	}

	article.Published = false
	article.PublishedAt = nil
	article.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("unpublishing article: %w", err)
	}

	if err := s.index.DeleteArticle(articleID); err != nil {
		s.logger.Warn("failed to remove article from search index", "article_id", articleID, "error", err)
	}

	s.logger.Info("article unpublished", "article_id", article.ID, "author_id", authorID)

	return s.attachProjections(ctx, article)
}

// SetCover points an article at an uploaded cover image. Only the author
// may change it.
func (s *ArticleService) SetCover(ctx context.Context, articleID, authorID, coverPath string) (*domain.Article, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, errors.Forbidden("only the author can edit this article")
	}

	article.CoverPath = coverPath
	article.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}
	return article, nil
}

// Delete removes an article and its search document. Only the author may
// delete it.
func (s *ArticleService) Delete(ctx context.Context, articleID, authorID string) error {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article.AuthorID != authorID {
		return errors.Forbidden("only the author can delete this article")
	}

	if err := s.store.DeleteArticle(ctx, articleID); err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}

	if err := s.index.DeleteArticle(articleID); err != nil {
		s.logger.Warn("failed to remove article from search index", "article_id", articleID, "error", err)
	}

	return nil
}

// GetBySlug returns a published article, or a draft when the viewer is its
// author.
func (s *ArticleService) GetBySlug(ctx context.Context, slug, viewerID string) (*domain.Article, error) {
	article, err := s.store.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !article.Published && article.AuthorID != viewerID {
		return nil, store.ErrNotFound
	}
	return s.attachProjections(ctx, article)
}

// ListPublished returns the public feed, newest published first.
func (s *ArticleService) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	articles, err := s.store.ListPublishedArticles(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return s.attachProjectionsBatch(ctx, articles)
}

// ListByAuthor returns an author's articles. Drafts are included only when
// the viewer is the author.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Article, error) {
	articles, err := s.store.ListArticlesByAuthor(ctx, authorID, authorID == viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing author articles: %w", err)
	}
	return s.attachProjectionsBatch(ctx, articles)
}

// ListByTag returns published articles carrying the named tag.
func (s *ArticleService) ListByTag(ctx context.Context, tagName string) ([]*domain.Article, error) {
	tag, err := s.store.GetTagByName(ctx, util.Slugify(tagName))
	if err != nil {
		return nil, err
	}
	articles, err := s.store.ListArticlesByTag(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("listing articles by tag: %w", err)
	}
	return s.attachProjectionsBatch(ctx, articles)
}

// ListTags returns every tag with its article count.
func (s *ArticleService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// Search queries the full-text index over published articles.
func (s *ArticleService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// RebuildIndex re-indexes every published article. Called at startup when
// the index mapping version changed.
func (s *ArticleService) RebuildIndex(ctx context.Context) error {
	const batchSize = 200

	var docs []*search.ArticleDocument
	for offset := 0; ; offset += batchSize {
		articles, err := s.store.ListPublishedArticles(ctx, batchSize, offset)
		if err != nil {
			return fmt.Errorf("listing articles for reindex: %w", err)
		}
		if len(articles) == 0 {
			break
		}
		articles, err = s.attachProjectionsBatch(ctx, articles)
		if err != nil {
			return err
		}
		for _, a := range articles {
			docs = append(docs, search.NewArticleDocument(a))
		}
	}

	if len(docs) == 0 {
		return nil
	}
	if err := s.index.IndexArticles(docs); err != nil {
		return fmt.Errorf("rebuilding search index: %w", err)
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))
	return nil
}

// uniqueSlug slugifies the title and probes numeric suffixes until the slug
// is free.
func (s *ArticleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		return "", errors.Validation("title produces an empty slug")
	}

	slug := base
	for n := 1; ; n++ {
		exists, err := s.store.SlugExists(ctx, slug)
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

// deriveExcerpt returns the author-provided excerpt, or derives one from the
// article body. Rich text is converted to markdown first so markup never
// leaks into card previews.
func (s *ArticleService) deriveExcerpt(draft *domain.ArticleDraft) string {
	if excerpt := strings.TrimSpace(draft.Excerpt); excerpt != "" {
		return excerpt
	}

	md, err := htmltomarkdown.ConvertString(draft.Content)
	if err != nil {
		s.logger.Debug("excerpt conversion failed", "error", err)
		md = draft.Content
	}

	text := strings.Join(strings.Fields(md), " ")
	if len(text) <= excerptMaxLen {
		return text
	}

	cut := text[:excerptMaxLen]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// applyTags normalizes tag names, creates missing tags, and replaces the
// article's tag set.
func (s *ArticleService) applyTags(ctx context.Context, article *domain.Article, names []string) error {
	seen := make(map[string]bool, len(names))
	tagIDs := make([]string, 0, len(names))
	tags := make([]*domain.Tag, 0, len(names))

	for _, name := range names {
		normalized := util.Slugify(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		tag, _, err := s.store.FindOrCreateTag(ctx, normalized)
		if err != nil {
			return fmt.Errorf("resolving tag %q: %w", normalized, err)
		}
		tagIDs = append(tagIDs, tag.ID)
		tags = append(tags, tag)
	}

	if err := s.store.SetArticleTags(ctx, article.ID, tagIDs); err != nil {
		return fmt.Errorf("setting article tags: %w", err)
	}
	article.Tags = tags
	return nil
}

// notifyFollowers writes a new_article notification for every follower of
// the author in one batch, then pushes each over the realtime stream.
func (s *ArticleService) notifyFollowers(ctx context.Context, article *domain.Article) error {
	followerIDs, err := s.store.ListFollowerIDs(ctx, article.AuthorID)
	if err != nil {
		return fmt.Errorf("listing followers: %w", err)
	}
	if len(followerIDs) == 0 {
		return nil
	}

	authorName := article.AuthorID
	if article.Author != nil {
		authorName = article.Author.DisplayName
	}

	notifications := make([]*domain.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		notificationID, err := id.Generate("ntf")
		if err != nil {
			return fmt.Errorf("generating notification id: %w", err)
		}
		notifications = append(notifications, &domain.Notification{
			ID:          notificationID,
			Type:        domain.NotificationNewArticle,
			RecipientID: followerID,
			SenderID:    article.AuthorID,
			ArticleID:   article.ID,
			Message:     fmt.Sprintf("%s published a new article: %s", authorName, article.Title),
			CreatedAt:   time.Now().UTC(),
		})
	}

	if err := s.store.CreateNotifications(ctx, notifications); err != nil {
		return fmt.Errorf("writing notifications: %w", err)
	}

	for _, n := range notifications {
		n.Sender = article.Author
		n.Article = article
		unread, err := s.store.CountUnreadNotifications(ctx, n.RecipientID)
		if err != nil {
			s.logger.Debug("unread count failed during fan-out", "recipient_id", n.RecipientID, "error", err)
			continue
		}
		s.realtime.EmitToUser(n.RecipientID, realtime.NewNotificationEvent(n, unread))
	}

	return nil
}

// reindex updates the search document for a published article. Index errors
// are logged, never surfaced; the database is the source of truth.
func (s *ArticleService) reindex(article *domain.Article) {
	if err := s.index.IndexArticle(search.NewArticleDocument(article)); err != nil {
		s.logger.Warn("failed to index article", "article_id", article.ID, "error", err)
	}
}

// attachProjections fills the author profile and tags of one article.
func (s *ArticleService) attachProjections(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	articles, err := s.attachProjectionsBatch(ctx, []*domain.Article{article})
	if err != nil {
		return nil, err
	}
	return articles[0], nil
}

// attachProjectionsBatch fills author profiles (one batched lookup) and tags
// for a page of articles.
func (s *ArticleService) attachProjectionsBatch(ctx context.Context, articles []*domain.Article) ([]*domain.Article, error) {
	if len(articles) == 0 {
		return articles, nil
	}

	authorIDs := make([]string, 0, len(articles))
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if !seen[a.AuthorID] {
			seen[a.AuthorID] = true
			authorIDs = append(authorIDs, a.AuthorID)
		}
	}

	profiles, err := s.store.GetProfiles(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("loading author profiles: %w", err)
	}

	for _, a := range articles {
		if profile, ok := profiles[a.AuthorID]; ok {
			p := profile
			a.Author = &p
		}
		tags, err := s.store.GetArticleTags(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("loading article tags: %w", err)
		}
		a.Tags = tags
	}

	return articles, nil
}
