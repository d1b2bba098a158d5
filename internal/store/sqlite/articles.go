package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// articleColumns is the ordered list of columns selected in article queries.
// Must match the scan order in scanArticle.
const articleColumns = `id, author_id, title, slug, content, excerpt, cover_path, published, published_at, created_at, updated_at`

// scanArticle scans a sql.Row (or sql.Rows via its Scan method) into a domain.Article.
// Tags and Author are left nil; callers attach them when needed.
func scanArticle(scanner interface{ Scan(dest ...any) error }) (*domain.Article, error) {
	var a domain.Article

	var (
		excerpt     sql.NullString
		coverPath   sql.NullString
		published   int
		publishedAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&a.ID,
		&a.AuthorID,
		&a.Title,
		&a.Slug,
		&a.Content,
		&excerpt,
		&coverPath,
		&published,
		&publishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Excerpt = excerpt.String
	a.CoverPath = coverPath.String
	a.Published = published != 0

	a.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateArticle inserts a new article.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateArticle(ctx context.Context, a *domain.Article) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, author_id, title, slug, content, excerpt, cover_path, published, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.AuthorID,
		a.Title,
		a.Slug,
		a.Content,
		nullString(a.Excerpt),
		nullString(a.CoverPath),
		boolToInt(a.Published),
		nullTimeString(a.PublishedAt),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetArticle retrieves an article by ID.
func (s *Store) GetArticle(ctx context.Context, articleID string) (*domain.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, articleID)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetArticleBySlug retrieves an article by its slug.
func (s *Store) GetArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SlugExists reports whether any article already uses the given slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateArticle persists changes to title, content, excerpt, cover,
// published state, and timestamps. The slug never changes after creation.
func (s *Store) UpdateArticle(ctx context.Context, a *domain.Article) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, content = ?, excerpt = ?, cover_path = ?, published = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		a.Title,
		a.Content,
		nullString(a.Excerpt),
		nullString(a.CoverPath),
		boolToInt(a.Published),
		nullTimeString(a.PublishedAt),
		formatTime(a.UpdatedAt),
		a.ID,
	)
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

// DeleteArticle removes an article; event relations cascade.
func (s *Store) DeleteArticle(ctx context.Context, articleID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, articleID)
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

// ListPublishedArticles returns published articles newest-first.
// limit <= 0 means no limit.
func (s *Store) ListPublishedArticles(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE published = 1 ORDER BY published_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListArticlesByAuthor returns an author's articles newest-first.
// When includeDrafts is false only published articles are returned.
func (s *Store) ListArticlesByAuthor(ctx context.Context, authorID string, includeDrafts bool) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE author_id = ?`
	if !includeDrafts {
		query += ` AND published = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListArticlesByTag returns published articles carrying the tag, newest-first.
func (s *Store) ListArticlesByTag(ctx context.Context, tagID string) ([]*domain.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("a", articleColumns)+`
		FROM articles a
		JOIN article_tags at ON at.article_id = a.id
		WHERE at.tag_id = ? AND a.published = 1
		ORDER BY a.published_at DESC`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

// collectArticles drains rows into a slice.
func collectArticles(rows *sql.Rows) ([]*domain.Article, error) {
	var articles []*domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []*domain.Article{}
	}
	return articles, nil
}

// SetArticleTags replaces all tags for an article in a single transaction.
func (s *Store) SetArticleTags(ctx context.Context, articleID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("delete article_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO article_tags (article_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			articleID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert article_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetArticleTags returns the tags attached to an article ordered by name.
func (s *Store) GetArticleTags(ctx context.Context, articleID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = ?
		ORDER BY t.name ASC`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// boolToInt converts a bool to its SQLite integer form.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// prefixColumns prefixes each column in a comma-separated list with an alias.
func prefixColumns(alias, columns string) string {
	out := ""
	start := 0
	for i := 0; i <= len(columns); i++ {
		if i == len(columns) || columns[i] == ',' {
			col := columns[start:i]
			for len(col) > 0 && col[0] == ' ' {
				col = col[1:]
			}
			if out != "" {
				out += ", "
			}
			out += alias + "." + col
			start = i + 1
		}
	}
	return out
}
