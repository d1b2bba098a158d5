package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateLike inserts a like event.
// Returns store.ErrAlreadyExists if the (article, user) pair already exists.
func (s *Store) CreateLike(ctx context.Context, articleID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (article_id, user_id, created_at)
		VALUES (?, ?, ?)`,
		articleID,
		userID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteLike removes a like event.
// Returns store.ErrNotFound if the pair does not exist.
func (s *Store) DeleteLike(ctx context.Context, articleID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE article_id = ? AND user_id = ?`, articleID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// HasLiked reports whether the user has liked the article.
func (s *Store) HasLiked(ctx context.Context, articleID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE article_id = ? AND user_id = ?`,
		articleID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountLikes returns the number of like rows for an article.
func (s *Store) CountLikes(ctx context.Context, articleID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE article_id = ?`, articleID).Scan(&n)
	return n, err
}

// ListLikers returns the users who liked an article, most recent first,
// each projected with their public profile.
func (s *Store) ListLikers(ctx context.Context, articleID string) ([]*domain.Liker, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.display_name, u.avatar_path, u.bio, l.created_at
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.article_id = ?
		ORDER BY l.created_at DESC`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likers []*domain.Liker
	for rows.Next() {
		var liker domain.Liker
		var avatarPath, bio sql.NullString
		var likedAt string
		if err := rows.Scan(&liker.ID, &liker.Username, &liker.DisplayName, &avatarPath, &bio, &likedAt); err != nil {
			return nil, err
		}
		liker.AvatarPath = avatarPath.String
		liker.Bio = bio.String
		liker.LikedAt, err = parseTime(likedAt)
		if err != nil {
			return nil, err
		}
		likers = append(likers, &liker)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if likers == nil {
		likers = []*domain.Liker{}
	}
	return likers, nil
}
