package domain

import "time"

// Comment is a reader comment on an article. Only its author may delete it.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Author is an optional denormalized projection for display.
	Author *Profile `json:"author,omitempty"`
}

// CommentDraft is the validated input for posting a comment.
type CommentDraft struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
