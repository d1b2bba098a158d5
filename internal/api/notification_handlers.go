package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the caller's notification feed, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnreadCount",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/unread",
		Summary:     "Unread count",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUnreadCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read-all",
		Summary:     "Mark all read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkAllNotificationsRead)
}

// === DTOs ===

// NotificationsInput carries the caller's auth.
type NotificationsInput struct {
	Authorization string `header:"Authorization"`
}

// NotificationListOutput wraps the notification feed for Huma.
type NotificationListOutput struct {
	Body struct {
		Notifications []*domain.Notification `json:"notifications" doc:"Feed, newest first"`
	}
}

// UnreadCountOutput wraps the unread count for Huma.
type UnreadCountOutput struct {
	Body struct {
		Unread int `json:"unread" doc:"Unread notification count"`
	}
}

// MarkReadInput identifies a notification to mark read.
type MarkReadInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Notification ID"`
}

// MarkAllReadOutput wraps the mark-all response for Huma.
type MarkAllReadOutput struct {
	Body struct {
		Changed int `json:"changed" doc:"How many notifications changed state"`
	}
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, input *NotificationsInput) (*NotificationListOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	feed, err := s.services.Notification.Feed(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &NotificationListOutput{}
	out.Body.Notifications = feed
	return out, nil
}

func (s *Server) handleGetUnreadCount(ctx context.Context, input *NotificationsInput) (*UnreadCountOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	unread, err := s.services.Notification.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &UnreadCountOutput{}
	out.Body.Unread = unread
	return out, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *MarkReadInput) (*UnreadCountOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	unread, err := s.services.Notification.MarkRead(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	out := &UnreadCountOutput{}
	out.Body.Unread = unread
	return out, nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, input *NotificationsInput) (*MarkAllReadOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	changed, err := s.services.Notification.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &MarkAllReadOutput{}
	out.Body.Changed = changed
	return out, nil
}
