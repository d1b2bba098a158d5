package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
// Must match the scan order in scanComment.
const commentColumns = `id, article_id, author_id, content, created_at`

// scanComment scans a sql.Row (or sql.Rows via its Scan method) into a domain.Comment.
func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment

	var createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.ArticleID,
		&c.AuthorID,
		&c.Content,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateComment inserts a new comment.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, article_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID,
		c.ArticleID,
		c.AuthorID,
		c.Content,
		formatTime(c.CreatedAt),
	)
	return err
}

// GetComment retrieves a comment by ID.
func (s *Store) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, commentID)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCommentOwned deletes a comment only if authorID owns it.
// A delete scoped to a non-owned comment affects zero rows and returns
// store.ErrNotFound; callers treat that as a silent no-op.
func (s *Store) DeleteCommentOwned(ctx context.Context, commentID, authorID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND author_id = ?`, commentID, authorID)
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

// CountComments returns the number of comment rows for an article.
func (s *Store) CountComments(ctx context.Context, articleID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE article_id = ?`, articleID).Scan(&n)
	return n, err
}

// ListComments returns an article's comments newest-first, each joined with
// the author's public profile projection.
func (s *Store) ListComments(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.article_id, c.author_id, c.content, c.created_at,
		       u.username, u.display_name, u.avatar_path
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.article_id = ?
		ORDER BY c.created_at DESC`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		var createdAt string
		var username, displayName string
		var avatarPath sql.NullString
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.Content, &createdAt,
			&username, &displayName, &avatarPath); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		c.Author = &domain.Profile{
			ID:          c.AuthorID,
			Username:    username,
			DisplayName: displayName,
			AvatarPath:  avatarPath.String,
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}
