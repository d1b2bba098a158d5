package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// FollowService manages the follower graph.
type FollowService struct {
	store    *sqlite.Store
	realtime *realtime.Manager
	logger   *slog.Logger
}

// NewFollowService creates a new follow service.
func NewFollowService(store *sqlite.Store, rt *realtime.Manager, logger *slog.Logger) *FollowService {
	return &FollowService{
		store:    store,
		realtime: rt,
		logger:   logger,
	}
}

// Toggle follows the target user if the caller doesn't already follow them,
// and unfollows otherwise. Returns the resulting following state. Following
// someone notifies them; unfollowing is silent.
func (s *FollowService) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, errors.Validation("you cannot follow yourself")
	}

	// Target must exist before we touch the edge.
	target, err := s.store.GetUser(ctx, followingID)
	if err != nil {
		return false, err
	}

	following, err := s.store.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("checking follow edge: %w", err)
	}

	if following {
		if err := s.store.DeleteFollow(ctx, followerID, followingID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, fmt.Errorf("removing follow: %w", err)
		}
		return false, nil
	}

	err = s.store.CreateFollow(ctx, followerID, followingID)
	switch {
	case err == nil:
		s.notifyFollow(ctx, followerID, target)
	case errors.Is(err, store.ErrAlreadyExists):
		// Lost a race with a duplicate tap; the edge stands.
	default:
		return false, fmt.Errorf("creating follow: %w", err)
	}

	return true, nil
}

// Counts returns the follower and following counts of a user, plus whether
// the viewer follows them. An empty viewerID means anonymous.
func (s *FollowService) Counts(ctx context.Context, userID, viewerID string) (*domain.FollowCounts, error) {
	followers, err := s.store.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting followers: %w", err)
	}
	following, err := s.store.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting following: %w", err)
	}

	viewerFollows := false
	if viewerID != "" && viewerID != userID {
		viewerFollows, err = s.store.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, fmt.Errorf("checking viewer follow: %w", err)
		}
	}

	return &domain.FollowCounts{
		Followers:     followers,
		Following:     following,
		ViewerFollows: viewerFollows,
	}, nil
}

// Followers returns the profiles following a user, most recent first.
func (s *FollowService) Followers(ctx context.Context, userID string) ([]*domain.Profile, error) {
	return s.store.ListFollowers(ctx, userID)
}

// Following returns the profiles a user follows, most recent first.
func (s *FollowService) Following(ctx context.Context, userID string) ([]*domain.Profile, error) {
	return s.store.ListFollowing(ctx, userID)
}

// notifyFollow tells the target they gained a follower. Failures are logged,
// never returned; the edge itself already exists.
func (s *FollowService) notifyFollow(ctx context.Context, followerID string, target *domain.User) {
	follower, err := s.store.GetUser(ctx, followerID)
	if err != nil {
		s.logger.Error("loading follower for notification", "user_id", followerID, "error", err)
		return
	}

	notificationID, err := id.Generate("ntf")
	if err != nil {
		s.logger.Error("generating notification id", "error", err)
		return
	}

	n := &domain.Notification{
		ID:          notificationID,
		Type:        domain.NotificationFollow,
		RecipientID: target.ID,
		SenderID:    followerID,
		Message:     fmt.Sprintf("%s started following you", follower.DisplayName),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Error("writing follow notification", "recipient_id", target.ID, "error", err)
		return
	}

	profile := follower.AsProfile()
	n.Sender = &profile

	unread, err := s.store.CountUnreadNotifications(ctx, target.ID)
	if err != nil {
		s.logger.Debug("unread count failed", "recipient_id", target.ID, "error", err)
		return
	}
	s.realtime.EmitToUser(target.ID, realtime.NewNotificationEvent(n, unread))
}
