package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
)

// UpsertUserView records a view for an authenticated user.
// The (article, user) pair is unique; repeat views update the existing row's
// timestamp instead of inserting, so the operation is idempotent with
// respect to the count.
func (s *Store) UpsertUserView(ctx context.Context, articleID, userID string) error {
	viewID, err := id.Generate("view")
	if err != nil {
		return fmt.Errorf("generate view id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO views (id, article_id, user_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (article_id, user_id) WHERE user_id IS NOT NULL
		DO UPDATE SET created_at = excluded.created_at`,
		viewID,
		articleID,
		userID,
		formatTime(time.Now().UTC()),
	)
	return err
}

// InsertAnonymousView appends a view row for an anonymous viewer.
// Debouncing happens upstream; the relation itself accepts repeat rows.
func (s *Store) InsertAnonymousView(ctx context.Context, articleID, anonID string) error {
	viewID, err := id.Generate("view")
	if err != nil {
		return fmt.Errorf("generate view id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO views (id, article_id, anon_id, created_at)
		VALUES (?, ?, ?, ?)`,
		viewID,
		articleID,
		anonID,
		formatTime(time.Now().UTC()),
	)
	return err
}

// CountViews returns the number of view rows for an article.
func (s *Store) CountViews(ctx context.Context, articleID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM views WHERE article_id = ?`, articleID).Scan(&n)
	return n, err
}

// CreateShare appends a share telemetry row. Shares are write-only; nothing
// in the product reads them back.
func (s *Store) CreateShare(ctx context.Context, share *domain.Share) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shares (id, article_id, user_id, platform, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		share.ID,
		share.ArticleID,
		nullString(share.UserID),
		string(share.Platform),
		formatTime(share.CreatedAt),
	)
	return err
}

// CountShares returns the number of share rows for an article.
// Used by tests and the seed tool, not by the engagement surfaces.
func (s *Store) CountShares(ctx context.Context, articleID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shares WHERE article_id = ?`, articleID).Scan(&n)
	return n, err
}
