package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func createTestUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := &domain.User{
		ID:           id.MustGenerate("usr"),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		DisplayName:  username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func createTestArticle(t *testing.T, s *Store, authorID, slug string) *domain.Article {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Article{
		ID:          id.MustGenerate("art"),
		AuthorID:    authorID,
		Title:       "Test Article " + slug,
		Slug:        slug,
		Content:     "<p>content</p>",
		Published:   true,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateArticle(context.Background(), a); err != nil {
		t.Fatalf("create article %s: %v", slug, err)
	}
	return a
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "maya")

	dup := &domain.User{
		ID:           id.MustGenerate("usr"),
		Username:     "maya",
		Email:        "other@example.com",
		PasswordHash: "x",
		DisplayName:  "Maya",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate username: got %v, want ErrAlreadyExists", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "usr-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGetProfilesBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := createTestUser(t, s, "alice")
	u2 := createTestUser(t, s, "bob")

	profiles, err := s.GetProfiles(ctx, []string{u1.ID, u2.ID, "usr-missing"})
	if err != nil {
		t.Fatalf("get profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	if profiles[u1.ID].Username != "alice" {
		t.Errorf("got username %q, want alice", profiles[u1.ID].Username)
	}
}

func TestFindOrCreateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, created, err := s.FindOrCreateTag(ctx, "fiction")
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}

	again, created, err := s.FindOrCreateTag(ctx, "fiction")
	if err != nil {
		t.Fatalf("find or create again: %v", err)
	}
	if created {
		t.Error("second call should find")
	}
	if again.ID != tag.ID {
		t.Errorf("got tag %s, want %s", again.ID, tag.ID)
	}
}

func TestSlugExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "writer")
	createTestArticle(t, s, author.ID, "my-first-post")

	exists, err := s.SlugExists(ctx, "my-first-post")
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}

	exists, err = s.SlugExists(ctx, "my-first-post-1")
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if exists {
		t.Error("expected free slug")
	}
}

func TestListPublishedArticlesOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "writer")
	for i := range 3 {
		createTestArticle(t, s, author.ID, fmt.Sprintf("post-%d", i))
		time.Sleep(2 * time.Millisecond)
	}

	articles, err := s.ListPublishedArticles(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}
	if articles[0].Slug != "post-2" {
		t.Errorf("got first slug %q, want newest post-2", articles[0].Slug)
	}
}
