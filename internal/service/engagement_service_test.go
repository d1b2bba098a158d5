package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Likeable Piece")

	liked, engagement, err := env.engagement.ToggleLike(ctx, article.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, engagement.LikeCount)
	assert.True(t, engagement.ViewerHasLiked)

	liked, engagement, err = env.engagement.ToggleLike(ctx, article.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, engagement.LikeCount)
	assert.False(t, engagement.ViewerHasLiked)
}

func TestLikeNotifiesAuthorOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Popular Piece")

	_, _, err := env.engagement.ToggleLike(ctx, article.ID, reader.ID)
	require.NoError(t, err)

	feed, err := env.notifications.Feed(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationArticleLike, feed[0].Type)
	assert.Equal(t, reader.ID, feed[0].SenderID)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	article := env.publishArticle(t, author, "Self Regard")

	_, _, err := env.engagement.ToggleLike(ctx, article.ID, author.ID)
	require.NoError(t, err)

	feed, err := env.notifications.Feed(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestAddCommentNotifiesAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Discussed Piece")

	comment, err := env.engagement.AddComment(ctx, article.ID, reader.ID, &domain.CommentDraft{
		Content: "Loved the ending.",
	})
	require.NoError(t, err)

	feed, err := env.notifications.Feed(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationArticleComment, feed[0].Type)
	assert.Equal(t, comment.ID, feed[0].CommentID)
	assert.Equal(t, article.ID, feed[0].ArticleID)
	require.NotNil(t, feed[0].Comment, "comment entries carry the comment projection")
	assert.Equal(t, "Loved the ending.", feed[0].Comment.Content)
	require.NotNil(t, feed[0].Article)
	assert.Equal(t, article.Title, feed[0].Article.Title)
}

func TestAddCommentRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	article := env.publishArticle(t, author, "Quiet Piece")

	_, err := env.engagement.AddComment(ctx, article.ID, author.ID, &domain.CommentDraft{Content: ""})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = env.engagement.AddComment(ctx, article.ID, author.ID, &domain.CommentDraft{
		Content: strings.Repeat("x", 2001),
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDeleteCommentIsOwnerScopedAndSilent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Moderated Piece")

	comment, err := env.engagement.AddComment(ctx, article.ID, reader.ID, &domain.CommentDraft{Content: "Hot take."})
	require.NoError(t, err)

	// Someone else's delete is a silent no-op; the comment survives.
	require.NoError(t, env.engagement.DeleteComment(ctx, comment.ID, author.ID))
	comments, err := env.engagement.Comments(ctx, article.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	// The author's delete removes it; repeating is still fine.
	require.NoError(t, env.engagement.DeleteComment(ctx, comment.ID, reader.ID))
	require.NoError(t, env.engagement.DeleteComment(ctx, comment.ID, reader.ID))
	comments, err = env.engagement.Comments(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestRecordViewAuthenticatedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Viewed Piece")

	for range 3 {
		require.NoError(t, env.engagement.RecordView(ctx, article.ID, reader.ID, ""))
	}

	engagement, err := env.engagement.Engagement(ctx, article.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, engagement.ViewCount)
}

func TestRecordViewAnonymousDebounced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	article := env.publishArticle(t, author, "Anonymous Traffic")

	anonID := uuid.NewString()
	for range 3 {
		require.NoError(t, env.engagement.RecordView(ctx, article.ID, "", anonID))
	}
	require.NoError(t, env.engagement.RecordView(ctx, article.ID, "", uuid.NewString()))

	engagement, err := env.engagement.Engagement(ctx, article.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, engagement.ViewCount)
}

func TestRecordViewRejectsBadAnonID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	article := env.publishArticle(t, author, "Strict Piece")

	err := env.engagement.RecordView(ctx, article.ID, "", "not-a-uuid")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestRecordShareReturnsIntentURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Shareable Piece")

	intentURL, err := env.engagement.RecordShare(ctx, article.ID, reader.ID, domain.ShareTwitter)
	require.NoError(t, err)
	assert.Contains(t, intentURL, "twitter.com/intent/tweet")
	assert.Contains(t, intentURL, "shareable-piece")

	_, err = env.engagement.RecordShare(ctx, article.ID, reader.ID, domain.SharePlatform("myspace"))
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSharesDoNotAffectEngagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")
	article := env.publishArticle(t, author, "Telemetry Piece")

	for range 5 {
		_, err := env.engagement.RecordShare(ctx, article.ID, reader.ID, domain.ShareCopy)
		require.NoError(t, err)
	}

	engagement, err := env.engagement.Engagement(ctx, article.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, engagement.LikeCount)
	assert.Equal(t, 0, engagement.CommentCount)
	assert.Equal(t, 0, engagement.ViewCount)
}
