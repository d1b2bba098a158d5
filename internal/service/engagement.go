package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/inkwellapp/inkwell-server/internal/viewgate"
)

// EngagementService manages likes, comments, views, and shares on articles.
// All counts it serves are derived from the underlying event rows.
type EngagementService struct {
	store     *sqlite.Store
	gate      *viewgate.Gate
	validator *validation.Validator
	realtime  *realtime.Manager
	logger    *slog.Logger
	baseURL   string
}

// NewEngagementService creates a new engagement service. baseURL is the
// public server URL used to build share links.
func NewEngagementService(store *sqlite.Store, gate *viewgate.Gate, validator *validation.Validator, rt *realtime.Manager, logger *slog.Logger, baseURL string) *EngagementService {
	return &EngagementService{
		store:     store,
		gate:      gate,
		validator: validator,
		realtime:  rt,
		logger:    logger,
		baseURL:   baseURL,
	}
}

// ToggleLike likes the article if the viewer hasn't liked it, and unlikes it
// if they have. Returns the resulting liked state and the fresh aggregate.
// Liking someone else's article notifies its author.
func (s *EngagementService) ToggleLike(ctx context.Context, articleID, userID string) (bool, *domain.Engagement, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return false, nil, err
	}

	liked, err := s.store.HasLiked(ctx, articleID, userID)
	if err != nil {
		return false, nil, fmt.Errorf("checking like: %w", err)
	}

	if liked {
		if err := s.store.DeleteLike(ctx, articleID, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, nil, fmt.Errorf("removing like: %w", err)
		}
	} else {
		err := s.store.CreateLike(ctx, articleID, userID)
		switch {
		case err == nil:
			s.notifyLike(ctx, article, userID)
		case errors.Is(err, store.ErrAlreadyExists):
			// Lost a race with a duplicate tap; the like stands.
		default:
			return false, nil, fmt.Errorf("creating like: %w", err)
		}
	}

	engagement, err := s.Engagement(ctx, articleID, userID)
	if err != nil {
		return false, nil, err
	}

	s.realtime.Emit(realtime.NewEngagementEvent(engagement))
	return engagement.ViewerHasLiked, engagement, nil
}

// Likers returns the users who liked an article, most recent first.
func (s *EngagementService) Likers(ctx context.Context, articleID string) ([]*domain.Liker, error) {
	return s.store.ListLikers(ctx, articleID)
}

// AddComment posts a comment on an article and notifies the article's
// author.
func (s *EngagementService) AddComment(ctx context.Context, articleID, authorID string, draft *domain.CommentDraft) (*domain.Comment, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	commentID, err := id.Generate("cmt")
	if err != nil {
		return nil, fmt.Errorf("generating comment id: %w", err)
	}

	comment := &domain.Comment{
		ID:        commentID,
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   draft.Content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.notifyComment(ctx, article, comment)

	if engagement, err := s.Engagement(ctx, articleID, authorID); err == nil {
		s.realtime.Emit(realtime.NewEngagementEvent(engagement))
	}

	return comment, nil
}

// DeleteComment removes a comment if the caller authored it. Deleting a
// comment that is already gone, or that belongs to someone else, is a
// silent no-op.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, authorID string) error {
	err := s.store.DeleteCommentOwned(ctx, commentID, authorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// Comments returns an article's comments newest-first with author profiles.
func (s *EngagementService) Comments(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	return s.store.ListComments(ctx, articleID)
}

// RecordView records a view of an article.
//
// Authenticated views are keyed by user and idempotent: viewing the same
// article twice never adds a second row. Anonymous views are keyed by a
// client-minted anonymous ID and debounced for 24 hours per (viewer,
// article) pair.
func (s *EngagementService) RecordView(ctx context.Context, articleID, userID, anonID string) error {
	if _, err := s.store.GetArticle(ctx, articleID); err != nil {
		return err
	}

	if userID != "" {
		return s.store.UpsertUserView(ctx, articleID, userID)
	}

	if _, err := uuid.Parse(anonID); err != nil {
		return errors.Validation("anonymous viewer id must be a UUID")
	}

	count, err := s.gate.ShouldCount(anonID, articleID)
	if err != nil {
		return fmt.Errorf("checking view gate: %w", err)
	}
	if !count {
		return nil
	}

	return s.store.InsertAnonymousView(ctx, articleID, anonID)
}

// RecordShare records an outbound share and returns the platform intent URL
// the client should open. Shares are write-only telemetry; nothing in the
// engagement aggregate reads them back.
func (s *EngagementService) RecordShare(ctx context.Context, articleID, userID string, platform domain.SharePlatform) (string, error) {
	if !platform.Valid() {
		return "", errors.Validationf("unknown share platform %q", platform)
	}

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return "", err
	}

	shareID, err := id.Generate("shr")
	if err != nil {
		return "", fmt.Errorf("generating share id: %w", err)
	}

	share := &domain.Share{
		ID:        shareID,
		ArticleID: articleID,
		UserID:    userID,
		Platform:  platform,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateShare(ctx, share); err != nil {
		return "", fmt.Errorf("recording share: %w", err)
	}

	articleURL := fmt.Sprintf("%s/articles/%s", s.baseURL, article.Slug)
	return platform.IntentURL(articleURL, article.Title), nil
}

// Engagement returns the per-article aggregate for the given viewer.
// An empty viewerID means anonymous; ViewerHasLiked is then always false.
func (s *EngagementService) Engagement(ctx context.Context, articleID, viewerID string) (*domain.Engagement, error) {
	likes, err := s.store.CountLikes(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}
	comments, err := s.store.CountComments(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("counting comments: %w", err)
	}
	views, err := s.store.CountViews(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("counting views: %w", err)
	}

	hasLiked := false
	if viewerID != "" {
		hasLiked, err = s.store.HasLiked(ctx, articleID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("checking viewer like: %w", err)
		}
	}

	return &domain.Engagement{
		ArticleID:      articleID,
		LikeCount:      likes,
		CommentCount:   comments,
		ViewCount:      views,
		ViewerHasLiked: hasLiked,
	}, nil
}

// notifyLike writes an article_like notification unless the liker is the
// author. Notification failures are logged, never returned; the like itself
// already succeeded.
func (s *EngagementService) notifyLike(ctx context.Context, article *domain.Article, likerID string) {
	if article.AuthorID == likerID {
		return
	}

	notificationID, err := id.Generate("ntf")
	if err != nil {
		s.logger.Error("generating notification id", "error", err)
		return
	}

	liker, err := s.store.GetUser(ctx, likerID)
	if err != nil {
		s.logger.Error("loading liker for notification", "user_id", likerID, "error", err)
		return
	}

	n := &domain.Notification{
		ID:          notificationID,
		Type:        domain.NotificationArticleLike,
		RecipientID: article.AuthorID,
		SenderID:    likerID,
		ArticleID:   article.ID,
		Message:     fmt.Sprintf("%s liked your article: %s", liker.DisplayName, article.Title),
		CreatedAt:   time.Now().UTC(),
	}
	s.deliverNotification(ctx, n, liker, article)
}

// notifyComment writes an article_comment notification unless the commenter
// is the author.
func (s *EngagementService) notifyComment(ctx context.Context, article *domain.Article, comment *domain.Comment) {
	if article.AuthorID == comment.AuthorID {
		return
	}

	notificationID, err := id.Generate("ntf")
	if err != nil {
		s.logger.Error("generating notification id", "error", err)
		return
	}

	commenter, err := s.store.GetUser(ctx, comment.AuthorID)
	if err != nil {
		s.logger.Error("loading commenter for notification", "user_id", comment.AuthorID, "error", err)
		return
	}

	n := &domain.Notification{
		ID:          notificationID,
		Type:        domain.NotificationArticleComment,
		RecipientID: article.AuthorID,
		SenderID:    comment.AuthorID,
		ArticleID:   article.ID,
		CommentID:   comment.ID,
		Message:     fmt.Sprintf("%s commented on your article: %s", commenter.DisplayName, article.Title),
		CreatedAt:   time.Now().UTC(),
	}
	n.Comment = comment
	s.deliverNotification(ctx, n, commenter, article)
}

// deliverNotification persists a notification and pushes it to the
// recipient's realtime stream with a fresh unread count.
func (s *EngagementService) deliverNotification(ctx context.Context, n *domain.Notification, sender *domain.User, article *domain.Article) {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Error("writing notification", "type", n.Type, "recipient_id", n.RecipientID, "error", err)
		return
	}

	profile := sender.AsProfile()
	n.Sender = &profile
	n.Article = article

	unread, err := s.store.CountUnreadNotifications(ctx, n.RecipientID)
	if err != nil {
		s.logger.Debug("unread count failed", "recipient_id", n.RecipientID, "error", err)
		return
	}
	s.realtime.EmitToUser(n.RecipientID, realtime.NewNotificationEvent(n, unread))
}
