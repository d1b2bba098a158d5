package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// CreateFollow inserts a directed follow edge.
// Returns store.ErrAlreadyExists on a duplicate edge and
// store.ErrInvalidInput on a self-edge (rejected by a CHECK constraint).
func (s *Store) CreateFollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES (?, ?, ?)`,
		followerID,
		followingID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return store.ErrInvalidInput.WithMessage("cannot follow yourself")
		}
		return err
	}
	return nil
}

// DeleteFollow removes a follow edge.
// Returns store.ErrNotFound if the edge does not exist.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)
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

// IsFollowing reports whether follower follows following.
func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountFollowers returns how many users follow the given user.
func (s *Store) CountFollowers(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE following_id = ?`, userID).Scan(&n)
	return n, err
}

// CountFollowing returns how many users the given user follows.
func (s *Store) CountFollowing(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID).Scan(&n)
	return n, err
}

// ListFollowers returns the profiles of users who follow userID,
// most recent first. No pagination: callers receive the full edge set.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*domain.Profile, error) {
	return s.listFollowEdges(ctx, `
		SELECT u.id, u.username, u.display_name, u.avatar_path, u.bio
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// ListFollowing returns the profiles of users userID follows,
// most recent first. Symmetric to ListFollowers over the same relation.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*domain.Profile, error) {
	return s.listFollowEdges(ctx, `
		SELECT u.id, u.username, u.display_name, u.avatar_path, u.bio
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// ListFollowerIDs returns just the follower user IDs for fan-out.
func (s *Store) ListFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT follower_id FROM follows WHERE following_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var followerID string
		if err := rows.Scan(&followerID); err != nil {
			return nil, err
		}
		ids = append(ids, followerID)
	}
	return ids, rows.Err()
}

func (s *Store) listFollowEdges(ctx context.Context, query, userID string) ([]*domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		var p domain.Profile
		var avatarPath, bio sql.NullString
		if err := rows.Scan(&p.ID, &p.Username, &p.DisplayName, &avatarPath, &bio); err != nil {
			return nil, err
		}
		p.AvatarPath = avatarPath.String
		p.Bio = bio.String
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	return profiles, nil
}
