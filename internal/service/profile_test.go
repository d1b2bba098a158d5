package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestGetProfileWithCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	writer := env.createUser(t, "maya")
	reader := env.createUser(t, "sam")

	_, err := env.follows.Toggle(ctx, reader.ID, writer.ID)
	require.NoError(t, err)

	view, err := env.profiles.GetByUsername(ctx, "MAYA", reader.ID)
	require.NoError(t, err)
	assert.Equal(t, writer.ID, view.ID)
	assert.Equal(t, 1, view.Counts.Followers)
	assert.True(t, view.Counts.ViewerFollows)

	anon, err := env.profiles.GetByUsername(ctx, "maya", "")
	require.NoError(t, err)
	assert.False(t, anon.Counts.ViewerFollows)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "maya")

	updated, err := env.profiles.Update(ctx, user.ID, &ProfileUpdate{
		DisplayName: "  Maya Chen  ",
		Bio:         "Essayist.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maya Chen", updated.DisplayName)
	assert.Equal(t, "Essayist.", updated.Bio)

	_, err = env.profiles.Update(ctx, user.ID, &ProfileUpdate{
		DisplayName: "",
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = env.profiles.Update(ctx, user.ID, &ProfileUpdate{
		DisplayName: "Maya",
		Bio:         strings.Repeat("x", 501),
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSetAvatarReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "maya")

	first, err := env.profiles.SetAvatar(ctx, user.ID, []byte("image-one"), ".jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.AvatarPath, "avatars/"))

	second, err := env.profiles.SetAvatar(ctx, user.ID, []byte("image-two"), ".jpg")
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarPath, second.AvatarPath)
}
