package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":     "Maeve",
		"email":        "Maeve@Example.com",
		"password":     "correcthorse",
		"display_name": "Maeve O.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	assert.Equal(t, "maeve", registered.User.Username)
	assert.Equal(t, "maeve@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	t.Run("login with username", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"identifier": "maeve",
			"password":   "correcthorse",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var logged AuthResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &logged))
		assert.Equal(t, registered.User.ID, logged.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"identifier": "maeve",
			"password":   "wrong password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/auth/register", map[string]any{
			"username":     "maeve",
			"email":        "other@example.com",
			"password":     "correcthorse",
			"display_name": "Other",
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestGetCurrentUser(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.registerUser(t, "selma")

	resp := ts.api.Get("/api/v1/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, userID, user.ID)
	assert.NotContains(t, resp.Body.String(), "password")

	t.Run("garbage token", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/me", "Authorization: Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
