package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.auth.Register(ctx, &RegisterRequest{
		Username:    "Maya",
		Email:       "Maya@Example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Maya Chen",
	})
	require.NoError(t, err)
	assert.Equal(t, "maya", user.Username, "username is stored lowercased")
	assert.Equal(t, "maya@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := env.auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// Login by username and by email, case-insensitive.
	for _, identifier := range []string{"maya", "MAYA@example.com"} {
		got, token, err := env.auth.Login(ctx, &LoginRequest{
			Identifier: identifier,
			Password:   "correct-horse-battery",
		})
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := &RegisterRequest{
		Username:    "maya",
		Email:       "maya@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Maya",
	}
	_, _, err := env.auth.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = env.auth.Register(ctx, req)
	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.com", Password: "longenough", DisplayName: "A"}},
		{"bad email", RegisterRequest{Username: "maya", Email: "not-an-email", Password: "longenough", DisplayName: "A"}},
		{"short password", RegisterRequest{Username: "maya", Email: "a@b.com", Password: "short", DisplayName: "A"}},
		{"username with spaces", RegisterRequest{Username: "ma ya", Email: "a@b.com", Password: "longenough", DisplayName: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.auth.Register(ctx, &tt.req)
			assert.True(t, errors.Is(err, errors.ErrValidation))
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, &RegisterRequest{
		Username:    "maya",
		Email:       "maya@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Maya",
	})
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, &LoginRequest{Identifier: "maya", Password: "wrong"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	_, _, err = env.auth.Login(ctx, &LoginRequest{Identifier: "nobody", Password: "whatever"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials),
		"unknown accounts and wrong passwords must be indistinguishable")
}
