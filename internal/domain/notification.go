package domain

import (
	"fmt"
	"time"
)

// NotificationType discriminates the notification union.
type NotificationType string

// Known notification types. Feed queries filter to exactly this set so that
// rows written by newer server versions don't break older readers.
const (
	NotificationNewArticle     NotificationType = "new_article"
	NotificationArticleLike    NotificationType = "article_like"
	NotificationArticleComment NotificationType = "article_comment"
	NotificationFollow         NotificationType = "follow"
)

// KnownNotificationTypes lists every type the feed understands, in a stable
// order usable directly in SQL IN clauses.
func KnownNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationNewArticle,
		NotificationArticleLike,
		NotificationArticleComment,
		NotificationFollow,
	}
}

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationNewArticle, NotificationArticleLike, NotificationArticleComment, NotificationFollow:
		return true
	}
	return false
}

// Notification is a typed entry in a user's notification feed.
//
// The type determines which projections are required: article types carry an
// ArticleID, the comment type additionally carries a CommentID, and the
// follow type carries neither. Validate enforces this so rendering code
// never needs defensive nil checks.
//
// Lifecycle: unread → read, one-way. Notifications are never deleted.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipient_id"`
	SenderID    string           `json:"sender_id"`
	ArticleID   string           `json:"article_id,omitempty"`
	CommentID   string           `json:"comment_id,omitempty"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`

	// Seq is a per-recipient monotonic sequence assigned at insert.
	// Realtime consumers re-sort by it, so out-of-order stream delivery
	// cannot scramble the feed.
	Seq int64 `json:"seq"`

	// Denormalized projections for rendering. Sender is always present on
	// read paths; Article and Comment only for the types that require them.
	Sender  *Profile `json:"sender,omitempty"`
	Article *Article `json:"article,omitempty"`
	Comment *Comment `json:"comment,omitempty"`
}

// Validate checks the per-type projection requirements.
func (n *Notification) Validate() error {
	if !n.Type.Valid() {
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	if n.RecipientID == "" || n.SenderID == "" {
		return fmt.Errorf("notification requires recipient and sender")
	}
	if n.RecipientID == n.SenderID {
		return fmt.Errorf("notification cannot target its own sender")
	}

	switch n.Type {
	case NotificationNewArticle, NotificationArticleLike:
		if n.ArticleID == "" {
			return fmt.Errorf("%s notification requires an article", n.Type)
		}
	case NotificationArticleComment:
		if n.ArticleID == "" || n.CommentID == "" {
			return fmt.Errorf("%s notification requires an article and a comment", n.Type)
		}
	case NotificationFollow:
		// No projections beyond the sender.
	}

	return nil
}
