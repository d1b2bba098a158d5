package domain

import "time"

// Tag is a community content descriptor attached to articles.
// Name is normalized (lowercased, trimmed, slugified) at write time and is
// unique; normalization never happens at read time.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ArticleCount is a derived display field, not stored.
	ArticleCount int `json:"article_count,omitempty"`
}
