package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Like is an append-only like event. At most one row exists per
// (article, user) pair; existence means "liked".
type Like struct {
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Liker is a user who liked an article, projected for the likers list.
type Liker struct {
	Profile
	LikedAt time.Time `json:"liked_at"`
}

// View is a view event. Authenticated viewers get at most one row per
// (article, user) via upsert; anonymous viewers are keyed by a client-minted
// anonymous ID and debounced server-side, but the relation itself stays
// append-only for them.
type View struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id,omitempty"` // empty for anonymous views
	AnonID    string    `json:"anon_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SharePlatform identifies the outbound share target.
type SharePlatform string

// Supported share platforms.
const (
	ShareTwitter  SharePlatform = "twitter"
	ShareFacebook SharePlatform = "facebook"
	ShareLinkedIn SharePlatform = "linkedin"
	ShareWhatsApp SharePlatform = "whatsapp"
	ShareCopy     SharePlatform = "copy"
)

// Valid reports whether the platform is one we track.
func (p SharePlatform) Valid() bool {
	switch p {
	case ShareTwitter, ShareFacebook, ShareLinkedIn, ShareWhatsApp, ShareCopy:
		return true
	}
	return false
}

// IntentURL builds the platform share-intent URL for an article URL and title.
// For ShareCopy the article URL itself is returned; the client puts it on the
// clipboard.
func (p SharePlatform) IntentURL(articleURL, title string) string {
	escapedURL := url.QueryEscape(articleURL)
	escapedTitle := url.QueryEscape(title)

	switch p {
	case ShareTwitter:
		return fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s", escapedURL, escapedTitle)
	case ShareFacebook:
		return fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s", escapedURL)
	case ShareLinkedIn:
		return fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s", escapedURL)
	case ShareWhatsApp:
		return fmt.Sprintf("https://wa.me/?text=%s%%20%s", escapedTitle, escapedURL)
	case ShareCopy:
		return articleURL
	}
	return articleURL
}

// Share is a write-only telemetry row recording an outbound share.
// It is never read back by the engagement surfaces.
type Share struct {
	ID        string        `json:"id"`
	ArticleID string        `json:"article_id"`
	UserID    string        `json:"user_id,omitempty"` // empty for anonymous shares
	Platform  SharePlatform `json:"platform"`
	CreatedAt time.Time     `json:"created_at"`
}

// Engagement is the per-article aggregate served to article surfaces.
// Counts are always derived from row counts of the underlying event
// relations, never from denormalized counters.
type Engagement struct {
	ArticleID      string `json:"article_id"`
	LikeCount      int    `json:"like_count"`
	CommentCount   int    `json:"comment_count"`
	ViewCount      int    `json:"view_count"`
	ViewerHasLiked bool   `json:"viewer_has_liked"`
}
