package search

import (
	"context"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewInMemory(nil)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func testArticle(id, title, content string, tags ...string) *domain.Article {
	now := time.Now().UTC()
	a := &domain.Article{
		ID:          id,
		Title:       title,
		Slug:        id + "-slug",
		Content:     content,
		Published:   true,
		PublishedAt: &now,
		Author:      &domain.Profile{DisplayName: "Maya Chen"},
	}
	for _, tag := range tags {
		a.Tags = append(a.Tags, &domain.Tag{Name: tag})
	}
	return a
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	articles := []*domain.Article{
		testArticle("art-1", "The Craft of Revision", "<p>Editing your own work.</p>"),
		testArticle("art-2", "Worldbuilding for Fantasy", "<p>Maps and magic systems.</p>"),
	}
	for _, a := range articles {
		if err := idx.IndexArticle(NewArticleDocument(a)); err != nil {
			t.Fatalf("index: %v", err)
		}
	}

	params := DefaultParams()
	params.Query = "revision"
	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("got %d hits, want 1", result.Total)
	}
	if result.Hits[0].ID != "art-1" {
		t.Errorf("got hit %s, want art-1", result.Hits[0].ID)
	}
	if result.Hits[0].Slug != "art-1-slug" {
		t.Errorf("got slug %q, want stored art-1-slug", result.Hits[0].Slug)
	}
}

func TestSearchMatchesHTMLStrippedContent(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	a := testArticle("art-1", "Untitled Draft Thoughts", "<p>On <em>metaphor</em> in short fiction.</p>")
	if err := idx.IndexArticle(NewArticleDocument(a)); err != nil {
		t.Fatalf("index: %v", err)
	}

	params := DefaultParams()
	params.Query = "metaphor"
	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("got %d hits, want 1 content match", result.Total)
	}

	// Tag markup must not be searchable.
	params.Query = "em"
	result, err = idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("got %d hits for markup token, want 0", result.Total)
	}
}

func TestSearchTagFilter(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	docs := []*ArticleDocument{
		NewArticleDocument(testArticle("art-1", "Writing Dialogue", "<p>He said, she said.</p>", "craft")),
		NewArticleDocument(testArticle("art-2", "Writing Queries", "<p>Agents and letters.</p>", "publishing")),
	}
	if err := idx.IndexArticles(docs); err != nil {
		t.Fatalf("batch index: %v", err)
	}

	params := DefaultParams()
	params.Query = "writing"
	params.Tags = []string{"craft"}
	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("got %d hits, want 1", result.Total)
	}
	if result.Hits[0].ID != "art-1" {
		t.Errorf("got hit %s, want art-1", result.Hits[0].ID)
	}
}

func TestDeleteArticleRemovesFromIndex(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	a := testArticle("art-1", "Soon Unpublished", "<p>Temporary piece of writing.</p>")
	if err := idx.IndexArticle(NewArticleDocument(a)); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := idx.DeleteArticle("art-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	params := DefaultParams()
	params.Query = "unpublished"
	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("got %d hits after delete, want 0", result.Total)
	}

	n, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("doc count: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d documents, want 0", n)
	}
}

func TestStripTags(t *testing.T) {
	got := stripTags("<p>Hello <strong>world</strong></p>")
	if got != "Hello world" {
		t.Errorf("got %q, want %q", got, "Hello world")
	}
}
