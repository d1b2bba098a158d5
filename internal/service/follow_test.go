package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestFollowToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")

	following, err := env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, following)

	counts, err := env.follows.Counts(ctx, writer.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Followers)
	assert.True(t, counts.ViewerFollows)

	following, err = env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, following)

	counts, err = env.follows.Counts(ctx, writer.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Followers)
	assert.False(t, counts.ViewerFollows)
}

func TestSelfFollowRejectedAtService(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "maya")

	_, err := env.follows.Toggle(context.Background(), user.ID, user.ID)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestFollowMissingUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "maya")

	_, err := env.follows.Toggle(context.Background(), user.ID, "usr-missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestFollowNotifiesTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")

	_, err := env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)

	feed, err := env.notifications.Feed(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationFollow, feed[0].Type)
	assert.Equal(t, reader.ID, feed[0].SenderID)
	assert.Empty(t, feed[0].ArticleID)
}

func TestUnfollowIsSilent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")

	_, err := env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	_, err = env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)

	feed, err := env.notifications.Feed(ctx, writer.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1, "unfollow must not add a notification")
}

func TestFollowerLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.createUser(t, "maya")
	a := env.createUser(t, "sam")
	b := env.createUser(t, "kim")

	_, err := env.follows.Toggle(ctx, a.ID, writer.ID)
	require.NoError(t, err)
	_, err = env.follows.Toggle(ctx, b.ID, writer.ID)
	require.NoError(t, err)
	_, err = env.follows.Toggle(ctx, writer.ID, a.ID)
	require.NoError(t, err)

	followers, err := env.follows.Followers(ctx, writer.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := env.follows.Following(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, a.ID, following[0].ID)
}
