package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateArticleDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	article, err := env.articles.Create(ctx, author.ID, validDraft("My Great Day"))
	require.NoError(t, err)
	assert.Equal(t, "my-great-day", article.Slug)
	assert.False(t, article.Published)
	assert.Nil(t, article.PublishedAt)
}

func TestCreateArticleProbesSlugCollisions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	first, err := env.articles.Create(ctx, author.ID, validDraft("Same Title"))
	require.NoError(t, err)
	second, err := env.articles.Create(ctx, author.ID, validDraft("Same Title"))
	require.NoError(t, err)
	third, err := env.articles.Create(ctx, author.ID, validDraft("Same Title"))
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-1", second.Slug)
	assert.Equal(t, "same-title-2", third.Slug)
}

func TestCreateArticleRejectsShortDraft(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "maya")

	_, err := env.articles.Create(context.Background(), author.ID, &domain.ArticleDraft{
		Title:   "Hi",
		Content: "too short",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDeriveExcerptStripsMarkup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	draft := validDraft("Markup Test")
	draft.Content = "<p>" + strings.Repeat("A plain sentence about writing. ", 20) + "</p>"
	article, err := env.articles.Create(ctx, author.ID, draft)
	require.NoError(t, err)

	assert.NotContains(t, article.Excerpt, "<p>")
	assert.LessOrEqual(t, len(article.Excerpt), excerptMaxLen+len("…"))
}

func TestExplicitExcerptWins(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "maya")

	draft := validDraft("Excerpt Test")
	draft.Excerpt = "Hand-written excerpt."
	article, err := env.articles.Create(context.Background(), author.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "Hand-written excerpt.", article.Excerpt)
}

func TestUpdateArticleKeepsSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	article, err := env.articles.Create(ctx, author.ID, validDraft("Original Title"))
	require.NoError(t, err)

	updated, err := env.articles.Update(ctx, article.ID, author.ID, validDraft("Completely New Title"))
	require.NoError(t, err)
	assert.Equal(t, "Completely New Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)
}

func TestUpdateArticleForbiddenForNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	other := env.createUser(t, "sam")

	article, err := env.articles.Create(ctx, author.ID, validDraft("Mine"))
	require.NoError(t, err)

	_, err = env.articles.Update(ctx, article.ID, other.ID, validDraft("Stolen"))
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestPublishNotifiesFollowers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	follower := env.createUser(t, "sam")
	bystander := env.createUser(t, "kim")

	_, err := env.follows.Toggle(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	article := env.publishArticle(t, author, "Announcement")

	feed, err := env.notifications.Feed(ctx, follower.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationNewArticle, feed[0].Type)
	assert.Equal(t, article.ID, feed[0].ArticleID)
	assert.Equal(t, author.ID, feed[0].SenderID)

	feed, err = env.notifications.Feed(ctx, bystander.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPublishTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	follower := env.createUser(t, "sam")

	_, err := env.follows.Toggle(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	article := env.publishArticle(t, author, "Once Only")
	firstPublishedAt := article.PublishedAt

	again, err := env.articles.Publish(ctx, article.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, firstPublishedAt.Unix(), again.PublishedAt.Unix())

	feed, err := env.notifications.Feed(ctx, follower.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1, "second publish must not fan out again")
}

func TestPublishedArticleIsSearchable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	env.publishArticle(t, author, "The Lighthouse Keeper")

	params := search.DefaultParams()
	params.Query = "lighthouse"
	result, err := env.articles.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "the-lighthouse-keeper", result.Hits[0].Slug)
}

func TestDeleteArticleRemovesSearchDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	article := env.publishArticle(t, author, "Ephemeral Piece")
	require.NoError(t, env.articles.Delete(ctx, article.ID, author.ID))

	_, err := env.articles.GetBySlug(ctx, article.Slug, "")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	params := search.DefaultParams()
	params.Query = "ephemeral"
	result, err := env.articles.Search(ctx, params)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestDraftHiddenFromOtherViewers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	other := env.createUser(t, "sam")

	article, err := env.articles.Create(ctx, author.ID, validDraft("Secret Draft"))
	require.NoError(t, err)

	_, err = env.articles.GetBySlug(ctx, article.Slug, other.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	got, err := env.articles.GetBySlug(ctx, article.Slug, author.ID)
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)
}

func TestApplyTagsNormalizesAndDedupes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")

	draft := validDraft("Tagged Piece")
	draft.Tags = []string{"Slow Burn", "slow-burn", "  Fiction "}
	article, err := env.articles.Create(ctx, author.ID, draft)
	require.NoError(t, err)

	names := make([]string, 0, len(article.Tags))
	for _, tag := range article.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"slow-burn", "fiction"}, names)
}

func TestUnpublishHidesArticleAndSearchDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")

	article := env.publishArticle(t, author, "A Piece Soon Withdrawn From View")

	unpublished, err := env.articles.Unpublish(ctx, article.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.Nil(t, unpublished.PublishedAt)

	_, err = env.articles.GetBySlug(ctx, article.Slug, reader.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	params := search.DefaultParams()
	params.Query = "withdrawn"
	result, err := env.articles.Search(ctx, params)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	// Unpublishing a draft again is a no-op.
	again, err := env.articles.Unpublish(ctx, article.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, again.Published)

	_, err = env.articles.Unpublish(ctx, article.ID, reader.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}
