package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// NotificationService serves the notification feed and its read lifecycle.
// Notifications move from unread to read exactly once and are never deleted.
type NotificationService struct {
	store    *sqlite.Store
	realtime *realtime.Manager
	logger   *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store *sqlite.Store, rt *realtime.Manager, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:    store,
		realtime: rt,
		logger:   logger,
	}
}

// Feed returns the recipient's notification feed, newest first, capped at
// the feed window. Rows with types this server version doesn't know are
// filtered out at the query.
func (s *NotificationService) Feed(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	return s.store.ListNotifications(ctx, recipientID)
}

// UnreadCount returns how many known-type notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.store.CountUnreadNotifications(ctx, recipientID)
}

// MarkRead marks one notification as read and returns the fresh unread
// count. Marking an already-read notification is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, recipientID string) (int, error) {
	if err := s.store.MarkNotificationRead(ctx, notificationID, recipientID); err != nil {
		return 0, err
	}

	unread, err := s.store.CountUnreadNotifications(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("counting unread: %w", err)
	}

	s.realtime.EmitToUser(recipientID, realtime.NewNotificationsReadEvent(recipientID, unread))
	return unread, nil
}

// MarkAllRead marks every unread notification as read and returns how many
// changed. Short-circuits without writing when nothing is unread.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	unread, err := s.store.CountUnreadNotifications(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("counting unread: %w", err)
	}
	if unread == 0 {
		return 0, nil
	}

	changed, err := s.store.MarkAllNotificationsRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("marking all read: %w", err)
	}

	s.realtime.EmitToUser(recipientID, realtime.NewNotificationsReadEvent(recipientID, 0))
	return changed, nil
}
