package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func TestLikeEndpoints(t *testing.T) {
	ts := newTestServer(t)
	authorToken, _ := ts.registerUser(t, "author")
	readerToken, _ := ts.registerUser(t, "reader")

	articleID, _ := ts.publishArticle(t, authorToken, "Something Worth Liking Today")

	resp := ts.api.Post("/api/v1/articles/"+articleID+"/like", bearer(readerToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var toggled struct {
		Liked      bool               `json:"liked"`
		Engagement *domain.Engagement `json:"engagement"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggled))
	assert.True(t, toggled.Liked)
	assert.Equal(t, 1, toggled.Engagement.LikeCount)

	t.Run("second toggle unlikes", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/"+articleID+"/like", bearer(readerToken))
		require.Equal(t, http.StatusOK, resp.Code)
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &toggled))
		assert.False(t, toggled.Liked)
		assert.Equal(t, 0, toggled.Engagement.LikeCount)
	})

	t.Run("anonymous cannot like", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/" + articleID + "/like")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestCommentEndpoints(t *testing.T) {
	ts := newTestServer(t)
	authorToken, _ := ts.registerUser(t, "essayist")
	readerToken, _ := ts.registerUser(t, "commenter")

	articleID, _ := ts.publishArticle(t, authorToken, "An Essay Inviting Discussion")

	resp := ts.api.Post("/api/v1/articles/"+articleID+"/comments", bearer(readerToken), map[string]any{
		"content": "This resonated with me.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var comment domain.Comment
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &comment))

	t.Run("comments list includes it", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/articles/" + articleID + "/comments")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "This resonated with me.")
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/"+articleID+"/comments", bearer(readerToken), map[string]any{
			"content": "",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("delete is owner scoped and silent", func(t *testing.T) {
		// Someone else's delete is a no-op, not an error.
		resp := ts.api.Delete("/api/v1/comments/"+comment.ID, bearer(authorToken))
		require.Equal(t, http.StatusNoContent, resp.Code)

		resp = ts.api.Get("/api/v1/articles/" + articleID + "/comments")
		assert.Contains(t, resp.Body.String(), comment.ID)

		resp = ts.api.Delete("/api/v1/comments/"+comment.ID, bearer(readerToken))
		require.Equal(t, http.StatusNoContent, resp.Code)

		resp = ts.api.Get("/api/v1/articles/" + articleID + "/comments")
		assert.NotContains(t, resp.Body.String(), comment.ID)
	})
}

func TestViewAndShareEndpoints(t *testing.T) {
	ts := newTestServer(t)
	authorToken, _ := ts.registerUser(t, "tracked")
	articleID, slug := ts.publishArticle(t, authorToken, "A Piece That Gets Around")

	anonID := uuid.NewString()

	t.Run("anonymous views are debounced", func(t *testing.T) {
		for range 3 {
			resp := ts.api.Post("/api/v1/articles/"+articleID+"/view", map[string]any{
				"anon_id": anonID,
			})
			require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())
		}

		resp := ts.api.Get("/api/v1/articles/" + articleID + "/engagement")
		require.Equal(t, http.StatusOK, resp.Code)

		var engagement domain.Engagement
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &engagement))
		assert.Equal(t, 1, engagement.ViewCount)
	})

	t.Run("malformed anon id rejected", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/"+articleID+"/view", map[string]any{
			"anon_id": "not-a-uuid",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("share returns an intent URL", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/"+articleID+"/share", map[string]any{
			"platform": "twitter",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var share struct {
			IntentURL string `json:"intent_url"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &share))
		assert.Contains(t, share.IntentURL, "twitter.com/intent/tweet")
		assert.Contains(t, share.IntentURL, slug)
	})

	t.Run("unknown platform rejected", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles/"+articleID+"/share", map[string]any{
			"platform": "myspace",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	ts := newTestServer(t)
	authorToken, authorID := ts.registerUser(t, "followed")
	fanToken, _ := ts.registerUser(t, "fan")

	resp := ts.api.Post("/api/v1/users/"+authorID+"/follow", bearer(fanToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	ts.publishArticle(t, authorToken, "Fresh Words for the Follower")

	resp = ts.api.Get("/api/v1/notifications/unread", bearer(fanToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var unread struct {
		Unread int `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &unread))
	// One follow is silent for the fan; the publish lands a new_article.
	assert.Equal(t, 1, unread.Unread)

	t.Run("feed lists the notification", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/notifications", bearer(fanToken))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "new_article")
	})

	t.Run("mark all read", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/notifications/read-all", bearer(fanToken))
		require.Equal(t, http.StatusOK, resp.Code)

		resp = ts.api.Get("/api/v1/notifications/unread", bearer(fanToken))
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &unread))
		assert.Equal(t, 0, unread.Unread)
	})
}
