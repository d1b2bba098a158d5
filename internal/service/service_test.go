package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
	"github.com/inkwellapp/inkwell-server/internal/storage"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/inkwellapp/inkwell-server/internal/viewgate"
)

// testEnv wires every service against a real sqlite store, an in-memory
// search index, and an in-memory view gate.
type testEnv struct {
	store         *sqlite.Store
	articles      *ArticleService
	engagement    *EngagementService
	follows       *FollowService
	notifications *NotificationService
	jobs          *JobService
	ebooks        *EbookService
	profiles      *ProfileService
	auth          *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
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

	tokens, err := auth.NewTokenService(testKeyHex(), time.Hour)
	require.NoError(t, err)

	avatars, err := storage.NewBucket(t.TempDir(), storage.BucketAvatars)
	require.NoError(t, err)

	sheetsClient := sheets.NewClient("", "", logger)

	const baseURL = "https://inkwell.example"

	followSvc := NewFollowService(st, rt, logger)
	env := &testEnv{
		store:         st,
		articles:      NewArticleService(st, index, validator, rt, logger),
		engagement:    NewEngagementService(st, gate, validator, rt, logger, baseURL),
		follows:       followSvc,
		notifications: NewNotificationService(st, rt, logger),
		jobs:          NewJobService(st, validator, logger),
		ebooks:        NewEbookService(st, sheetsClient, validator, logger, baseURL),
		profiles:      NewProfileService(st, followSvc, avatars, validator, logger),
		auth:          NewAuthService(st, tokens, validator, logger),
	}
	return env
}

func testKeyHex() string {
	key := make([]byte, 64)
	for i := range key {
		key[i] = 'a'
	}
	return string(key)
}

func (e *testEnv) createUser(t *testing.T, username string) *domain.User {
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
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func validDraft(title string) *domain.ArticleDraft {
	content := "<p>"
	for range 10 {
		content += "Some long enough paragraph about the craft of writing. "
	}
	content += "</p>"
	return &domain.ArticleDraft{
		Title:   title,
		Content: content,
	}
}

func (e *testEnv) publishArticle(t *testing.T, author *domain.User, title string) *domain.Article {
	t.Helper()

	ctx := context.Background()
	article, err := e.articles.Create(ctx, author.ID, validDraft(title))
	require.NoError(t, err)
	article, err = e.articles.Publish(ctx, article.ID, author.ID)
	require.NoError(t, err)
	return article
}
