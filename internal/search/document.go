// Package search provides full-text search over published articles.
package search

import (
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// ArticleDocument is the indexed projection of a published article.
type ArticleDocument struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	AuthorName string   `json:"author_name"`
	Tags       []string `json:"tags"`
	// Unix seconds of the publish timestamp, for recency sorting.
	PublishedAt int64 `json:"published_at"`
}

// NewArticleDocument builds the index document for an article.
// Only published articles get indexed; the caller enforces that.
func NewArticleDocument(a *domain.Article) *ArticleDocument {
	doc := &ArticleDocument{
		ID:      a.ID,
		Title:   a.Title,
		Slug:    a.Slug,
		Excerpt: a.Excerpt,
		Content: stripTags(a.Content),
	}
	if a.Author != nil {
		doc.AuthorName = a.Author.DisplayName
	}
	for _, t := range a.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	if a.PublishedAt != nil {
		doc.PublishedAt = a.PublishedAt.Unix()
	}
	return doc
}

// ToMap converts the document to a map so field names match the mapping
// (lowercase) regardless of struct tags.
func (d *ArticleDocument) ToMap() map[string]any {
	return map[string]any{
		"id":           d.ID,
		"title":        d.Title,
		"slug":         d.Slug,
		"excerpt":      d.Excerpt,
		"content":      d.Content,
		"author_name":  d.AuthorName,
		"tags":         d.Tags,
		"published_at": d.PublishedAt,
	}
}

// stripTags removes HTML tags for indexing. Good enough for search; the
// rendered article always comes from the store, never from the index.
func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
