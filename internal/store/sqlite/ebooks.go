package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// ebookColumns is the ordered list of columns selected in ebook queries.
// Must match the scan order in scanEbook.
const ebookColumns = `id, author_id, title, slug, description, price_cents, cover_path, file_path, published, created_at, updated_at`

func scanEbook(scanner interface{ Scan(dest ...any) error }) (*domain.Ebook, error) {
	var e domain.Ebook

	var (
		description sql.NullString
		coverPath   sql.NullString
		filePath    sql.NullString
		published   int
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&e.ID,
		&e.AuthorID,
		&e.Title,
		&e.Slug,
		&description,
		&e.PriceCents,
		&coverPath,
		&filePath,
		&published,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Description = description.String
	e.CoverPath = coverPath.String
	e.FilePath = filePath.String
	e.Published = published != 0

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// CreateEbook inserts a new ebook.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateEbook(ctx context.Context, e *domain.Ebook) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ebooks (id, author_id, title, slug, description, price_cents, cover_path, file_path, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.AuthorID,
		e.Title,
		e.Slug,
		nullString(e.Description),
		e.PriceCents,
		nullString(e.CoverPath),
		nullString(e.FilePath),
		boolToInt(e.Published),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetEbook retrieves an ebook by ID.
func (s *Store) GetEbook(ctx context.Context, ebookID string) (*domain.Ebook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ebookColumns+` FROM ebooks WHERE id = ?`, ebookID)

	e, err := scanEbook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEbookBySlug retrieves an ebook by its URL slug.
func (s *Store) GetEbookBySlug(ctx context.Context, slug string) (*domain.Ebook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+ebookColumns+` FROM ebooks WHERE slug = ?`, slug)

	e, err := scanEbook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EbookSlugExists reports whether the slug is taken.
func (s *Store) EbookSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ebooks WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateEbook persists changes to an ebook. The slug never changes.
func (s *Store) UpdateEbook(ctx context.Context, e *domain.Ebook) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ebooks
		SET title = ?, description = ?, price_cents = ?, cover_path = ?, file_path = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		e.Title,
		nullString(e.Description),
		e.PriceCents,
		nullString(e.CoverPath),
		nullString(e.FilePath),
		boolToInt(e.Published),
		formatTime(e.UpdatedAt),
		e.ID,
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

// ListPublishedEbooks returns published ebooks, newest-first, each joined
// with the author's public profile.
func (s *Store) ListPublishedEbooks(ctx context.Context, limit, offset int) ([]*domain.Ebook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("e", ebookColumns)+`,
		       u.username, u.display_name, u.avatar_path
		FROM ebooks e
		JOIN users u ON u.id = e.author_id
		WHERE e.published = 1
		ORDER BY e.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ebooks []*domain.Ebook
	for rows.Next() {
		var e domain.Ebook
		var description, coverPath, filePath sql.NullString
		var published int
		var createdAt, updatedAt string
		var username, displayName string
		var avatarPath sql.NullString
		err := rows.Scan(
			&e.ID, &e.AuthorID, &e.Title, &e.Slug, &description, &e.PriceCents,
			&coverPath, &filePath, &published, &createdAt, &updatedAt,
			&username, &displayName, &avatarPath,
		)
		if err != nil {
			return nil, err
		}
		e.Description = description.String
		e.CoverPath = coverPath.String
		e.FilePath = filePath.String
		e.Published = published != 0
		e.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		e.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, err
		}
		e.Author = &domain.Profile{
			ID:          e.AuthorID,
			Username:    username,
			DisplayName: displayName,
			AvatarPath:  avatarPath.String,
		}
		ebooks = append(ebooks, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ebooks == nil {
		ebooks = []*domain.Ebook{}
	}
	return ebooks, nil
}

// ListEbooksByAuthor returns an author's ebooks, optionally including
// unpublished ones.
func (s *Store) ListEbooksByAuthor(ctx context.Context, authorID string, includeUnpublished bool) ([]*domain.Ebook, error) {
	query := `SELECT ` + ebookColumns + ` FROM ebooks WHERE author_id = ?`
	if !includeUnpublished {
		query += ` AND published = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ebooks []*domain.Ebook
	for rows.Next() {
		e, err := scanEbook(rows)
		if err != nil {
			return nil, err
		}
		ebooks = append(ebooks, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ebooks == nil {
		ebooks = []*domain.Ebook{}
	}
	return ebooks, nil
}

// CreateEbookPurchase inserts a purchase.
// Returns store.ErrAlreadyExists if the buyer already owns the ebook.
func (s *Store) CreateEbookPurchase(ctx context.Context, p *domain.EbookPurchase) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ebook_purchases (id, ebook_id, buyer_id, price_cents, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID,
		p.EbookID,
		p.BuyerID,
		p.PriceCents,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// HasPurchased reports whether the buyer owns the ebook.
func (s *Store) HasPurchased(ctx context.Context, ebookID, buyerID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ebook_purchases WHERE ebook_id = ? AND buyer_id = ?`,
		ebookID, buyerID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPurchasesByBuyer returns a buyer's purchases, newest-first.
func (s *Store) ListPurchasesByBuyer(ctx context.Context, buyerID string) ([]*domain.EbookPurchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ebook_id, buyer_id, price_cents, created_at
		FROM ebook_purchases
		WHERE buyer_id = ?
		ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.EbookPurchase
	for rows.Next() {
		var p domain.EbookPurchase
		var createdAt string
		if err := rows.Scan(&p.ID, &p.EbookID, &p.BuyerID, &p.PriceCents, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if purchases == nil {
		purchases = []*domain.EbookPurchase{}
	}
	return purchases, nil
}

// CountEbookSales returns the number of purchase rows for an ebook.
func (s *Store) CountEbookSales(ctx context.Context, ebookID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ebook_purchases WHERE ebook_id = ?`, ebookID).Scan(&n)
	return n, err
}
