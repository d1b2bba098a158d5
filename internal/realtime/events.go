// Package realtime implements Server-Sent Events for live notification and
// engagement delivery.
package realtime

import (
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventNotificationCreated carries a freshly inserted notification to its
	// recipient's open streams.
	EventNotificationCreated EventType = "notification.created"

	// EventNotificationsRead tells the recipient's other open streams that
	// notifications were marked read, with the fresh unread count.
	EventNotificationsRead EventType = "notification.read"

	// EventEngagementUpdated carries re-derived engagement counts for an
	// article after a like, comment, or view lands.
	EventEngagementUpdated EventType = "engagement.updated"

	// EventArticlePublished announces a newly published article.
	EventArticlePublished EventType = "article.published"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// When set, the event is only delivered to clients authenticated as this
	// user. Empty string means "broadcast to all".
	UserID string `json:"-"`
}

// NotificationEventData is the payload for notification.created events.
// Seq lets the client re-sort entries that arrived out of order.
type NotificationEventData struct {
	Notification *domain.Notification `json:"notification"`
	UnreadCount  int                  `json:"unread_count"`
}

// NotificationsReadEventData is the payload for notification.read events.
type NotificationsReadEventData struct {
	UnreadCount int `json:"unread_count"`
}

// EngagementEventData is the payload for engagement.updated events.
type EngagementEventData struct {
	Engagement *domain.Engagement `json:"engagement"`
}

// ArticlePublishedEventData is the payload for article.published events.
type ArticlePublishedEventData struct {
	Article *domain.Article `json:"article"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatEventData{ServerTime: now},
	}
}

// NewNotificationEvent creates a notification.created event targeted at the
// notification's recipient.
func NewNotificationEvent(n *domain.Notification, unread int) Event {
	return Event{
		Type:      EventNotificationCreated,
		Timestamp: time.Now(),
		UserID:    n.RecipientID,
		Data: NotificationEventData{
			Notification: n,
			UnreadCount:  unread,
		},
	}
}

// NewNotificationsReadEvent creates a notification.read event for a recipient.
func NewNotificationsReadEvent(recipientID string, unread int) Event {
	return Event{
		Type:      EventNotificationsRead,
		Timestamp: time.Now(),
		UserID:    recipientID,
		Data:      NotificationsReadEventData{UnreadCount: unread},
	}
}

// NewEngagementEvent creates a broadcast engagement.updated event.
func NewEngagementEvent(e *domain.Engagement) Event {
	return Event{
		Type:      EventEngagementUpdated,
		Timestamp: time.Now(),
		Data:      EngagementEventData{Engagement: e},
	}
}

// NewArticlePublishedEvent creates a broadcast article.published event.
func NewArticlePublishedEvent(a *domain.Article) Event {
	return Event{
		Type:      EventArticlePublished,
		Timestamp: time.Now(),
		Data:      ArticlePublishedEventData{Article: a},
	}
}
