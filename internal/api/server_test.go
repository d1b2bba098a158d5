package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
	"github.com/inkwellapp/inkwell-server/internal/storage"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/inkwellapp/inkwell-server/internal/viewgate"
)

// testServer wraps the API server with a humatest client and everything the
// handler tests need to reach behind the HTTP surface.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	dataDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dataDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	gate, err := viewgate.OpenInMemory(viewgate.DefaultWindow, logger)
	require.NoError(t, err)
	t.Cleanup(func() { gate.Close() })

	validator := validation.New()
	rt := realtime.NewManager(logger)

	tokens, err := auth.NewTokenService(strings.Repeat("a", 64), time.Hour)
	require.NoError(t, err)

	covers, err := storage.NewBucket(dataDir, storage.BucketCovers)
	require.NoError(t, err)
	avatars, err := storage.NewBucket(dataDir, storage.BucketAvatars)
	require.NoError(t, err)
	ebookFiles, err := storage.NewBucket(dataDir, storage.BucketEbooks)
	require.NoError(t, err)

	sheetsClient := sheets.NewClient("", "", logger)

	const baseURL = "https://inkwell.example"

	followSvc := service.NewFollowService(st, rt, logger)
	services := &Services{
		Auth:         service.NewAuthService(st, tokens, validator, logger),
		Article:      service.NewArticleService(st, index, validator, rt, logger),
		Engagement:   service.NewEngagementService(st, gate, validator, rt, logger, baseURL),
		Follow:       followSvc,
		Notification: service.NewNotificationService(st, rt, logger),
		Profile:      service.NewProfileService(st, followSvc, avatars, validator, logger),
		Job:          service.NewJobService(st, validator, logger),
		Ebook:        service.NewEbookService(st, sheetsClient, validator, logger, baseURL),
	}

	buckets := &StorageBuckets{
		Covers:  covers,
		Avatars: avatars,
		Ebooks:  ebookFiles,
	}

	srv := NewServer(st, services, buckets, rt, 100, 200, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
	}
}

// registerUser creates an account through the API and returns the access
// token and user ID.
func (ts *testServer) registerUser(t *testing.T, username string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "hunter2hunter2",
		"display_name": username,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Token, body.User.ID
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

// createArticle drafts an article through the API and returns its ID and slug.
func (ts *testServer) createArticle(t *testing.T, token, title string) (id, slug string) {
	t.Helper()

	content := strings.Repeat("A paragraph about the craft of writing fiction. ", 5)
	resp := ts.api.Post("/api/v1/articles", bearer(token), map[string]any{
		"title":   title,
		"content": content,
	})
	require.Equal(t, http.StatusOK, resp.Code, "create failed: %s", resp.Body.String())

	var article struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &article))
	return article.ID, article.Slug
}

// publishArticle drafts and publishes an article, returning its ID and slug.
func (ts *testServer) publishArticle(t *testing.T, token, title string) (id, slug string) {
	t.Helper()

	id, slug = ts.createArticle(t, token, title)
	resp := ts.api.Post("/api/v1/articles/"+id+"/publish", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, "publish failed: %s", resp.Body.String())
	return id, slug
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "healthy")
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing auth yields 401", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/articles", map[string]any{
			"title":   "No token attached here",
			"content": strings.Repeat("words ", 30),
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("unknown article yields 404 with code", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/articles/no-such-slug")
		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Body.String(), "NOT_FOUND")
	})

	t.Run("domain validation yields 400 with code", func(t *testing.T) {
		token, _ := ts.registerUser(t, "shortwriter")
		resp := ts.api.Post("/api/v1/articles", bearer(token), map[string]any{
			"title":   "Too short body",
			"content": "tiny",
		})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "VALIDATION")
	})
}
