package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestLikeUniquePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	reader := createTestUser(t, s, "reader")
	article := createTestArticle(t, s, author.ID, "liked-post")

	if err := s.CreateLike(ctx, article.ID, reader.ID); err != nil {
		t.Fatalf("first like: %v", err)
	}
	if err := s.CreateLike(ctx, article.ID, reader.ID); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second like: got %v, want ErrAlreadyExists", err)
	}

	n, err := s.CountLikes(ctx, article.ID)
	if err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d likes, want 1", n)
	}
}

func TestUnlikeRemovesRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	reader := createTestUser(t, s, "reader")
	article := createTestArticle(t, s, author.ID, "liked-post")

	if err := s.CreateLike(ctx, article.ID, reader.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.DeleteLike(ctx, article.ID, reader.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	liked, err := s.HasLiked(ctx, article.ID, reader.ID)
	if err != nil {
		t.Fatalf("has liked: %v", err)
	}
	if liked {
		t.Error("expected like removed")
	}

	if err := s.DeleteLike(ctx, article.ID, reader.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second unlike: got %v, want ErrNotFound", err)
	}
}

func TestListLikersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	article := createTestArticle(t, s, author.ID, "popular-post")

	first := createTestUser(t, s, "first")
	second := createTestUser(t, s, "second")

	if err := s.CreateLike(ctx, article.ID, first.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := s.CreateLike(ctx, article.ID, second.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	likers, err := s.ListLikers(ctx, article.ID)
	if err != nil {
		t.Fatalf("list likers: %v", err)
	}
	if len(likers) != 2 {
		t.Fatalf("got %d likers, want 2", len(likers))
	}
	if likers[0].Username != "second" {
		t.Errorf("got first liker %q, want most recent second", likers[0].Username)
	}
}

func TestUserViewIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	reader := createTestUser(t, s, "reader")
	article := createTestArticle(t, s, author.ID, "viewed-post")

	for range 3 {
		if err := s.UpsertUserView(ctx, article.ID, reader.ID); err != nil {
			t.Fatalf("upsert view: %v", err)
		}
	}

	n, err := s.CountViews(ctx, article.ID)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d views, want 1 for repeat authenticated viewer", n)
	}
}

func TestAnonymousViewsAppend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	article := createTestArticle(t, s, author.ID, "viewed-post")

	// Distinct anonymous viewers each contribute a row. Debouncing of the
	// same viewer happens above the store.
	if err := s.InsertAnonymousView(ctx, article.ID, "anon-1"); err != nil {
		t.Fatalf("anon view: %v", err)
	}
	if err := s.InsertAnonymousView(ctx, article.ID, "anon-2"); err != nil {
		t.Fatalf("anon view: %v", err)
	}

	n, err := s.CountViews(ctx, article.ID)
	if err != nil {
		t.Fatalf("count views: %v", err)
	}
	if n != 2 {
		t.Errorf("got %d views, want 2", n)
	}
}

func TestDeleteCommentOwned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	commenter := createTestUser(t, s, "commenter")
	other := createTestUser(t, s, "other")
	article := createTestArticle(t, s, author.ID, "discussed-post")

	c := &domain.Comment{
		ID:        id.MustGenerate("cmt"),
		ArticleID: article.ID,
		AuthorID:  commenter.ID,
		Content:   "great read",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateComment(ctx, c); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	// Someone else's delete is scoped out and touches nothing.
	if err := s.DeleteCommentOwned(ctx, c.ID, other.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign delete: got %v, want ErrNotFound", err)
	}
	n, err := s.CountComments(ctx, article.ID)
	if err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d comments after foreign delete, want 1", n)
	}

	if err := s.DeleteCommentOwned(ctx, c.ID, commenter.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	n, err = s.CountComments(ctx, article.ID)
	if err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d comments after owner delete, want 0", n)
	}
}

func TestShareTelemetry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := createTestUser(t, s, "author")
	article := createTestArticle(t, s, author.ID, "shared-post")

	share := &domain.Share{
		ID:        id.MustGenerate("shr"),
		ArticleID: article.ID,
		Platform:  domain.ShareTwitter,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateShare(ctx, share); err != nil {
		t.Fatalf("create share: %v", err)
	}

	// Repeat shares are plain telemetry appends, no uniqueness.
	share.ID = id.MustGenerate("shr")
	if err := s.CreateShare(ctx, share); err != nil {
		t.Fatalf("repeat share: %v", err)
	}

	n, err := s.CountShares(ctx, article.ID)
	if err != nil {
		t.Fatalf("count shares: %v", err)
	}
	if n != 2 {
		t.Errorf("got %d shares, want 2", n)
	}
}
