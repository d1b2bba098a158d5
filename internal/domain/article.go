package domain

import "time"

// Article represents a published or draft piece of writing.
//
// Invariants:
//   - Slug is globally unique, derived from the title at creation time.
//   - Published implies PublishedAt is non-nil.
type Article struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"` // Rich text (HTML)
	Excerpt     string     `json:"excerpt,omitempty"`
	CoverPath   string     `json:"cover_path,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Tags is the ordered set of tags attached to the article.
	Tags []*Tag `json:"tags,omitempty"`

	// Author is an optional denormalized projection of the owning user.
	Author *Profile `json:"author,omitempty"`
}

// ArticleDraft is the validated input for creating or updating an article.
// The min/max bounds mirror what the editor enforces client-side; the server
// is the source of truth.
type ArticleDraft struct {
	Title   string   `json:"title" validate:"required,min=5,max=120"`
	Content string   `json:"content" validate:"required,min=100"`
	Excerpt string   `json:"excerpt,omitempty" validate:"max=300"`
	Tags    []string `json:"tags,omitempty" validate:"max=5,dive,min=1,max=40"`
}
