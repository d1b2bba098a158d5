package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// feedLimit caps how many notifications a feed query returns.
const feedLimit = 20

// CreateNotification inserts a notification, assigning the next per-recipient
// sequence number inside the same transaction. Two notifications for the same
// recipient can never share a seq; the UNIQUE(recipient_id, seq) constraint
// backs the in-transaction MAX+1.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertNotificationTx(ctx, tx, n); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateNotifications inserts a batch of notifications in one transaction.
// Used for new-article fan-out to followers. Seq assignment is per recipient,
// so a batch spanning many recipients advances each feed independently.
func (s *Store) CreateNotifications(ctx context.Context, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, n := range ns {
		if err := insertNotificationTx(ctx, tx, n); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertNotificationTx(ctx context.Context, tx *sql.Tx, n *domain.Notification) error {
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM notifications WHERE recipient_id = ?`,
		n.RecipientID).Scan(&n.Seq)
	if err != nil {
		return fmt.Errorf("next seq for %s: %w", n.RecipientID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (id, type, recipient_id, sender_id, article_id, comment_id, message, read, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		n.ID,
		string(n.Type),
		n.RecipientID,
		n.SenderID,
		nullString(n.ArticleID),
		nullString(n.CommentID),
		n.Message,
		n.Seq,
		formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// ListNotifications returns the recipient's feed, newest-first, capped at the
// feed limit. Rows with types the current build doesn't know are skipped
// rather than surfaced as half-rendered entries.
func (s *Store) ListNotifications(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	known := domain.KnownNotificationTypes()
	args := make([]any, 0, len(known)+2)
	args = append(args, recipientID)
	for _, t := range known {
		args = append(args, string(t))
	}
	args = append(args, feedLimit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.type, n.recipient_id, n.sender_id, n.article_id, n.comment_id,
		       n.message, n.read, n.seq, n.created_at,
		       u.username, u.display_name, u.avatar_path,
		       a.title, a.slug,
		       c.content, c.created_at
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		LEFT JOIN articles a ON a.id = n.article_id
		LEFT JOIN comments c ON c.id = n.comment_id
		WHERE n.recipient_id = ?
		  AND n.type IN (?`+repeatPlaceholder(len(known)-1)+`)
		ORDER BY n.seq DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotificationRow(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

func scanNotificationRow(rows *sql.Rows) (*domain.Notification, error) {
	var n domain.Notification
	var typ, createdAt string
	var articleID, commentID sql.NullString
	var read int
	var username, displayName string
	var avatarPath sql.NullString
	var articleTitle, articleSlug sql.NullString
	var commentContent, commentCreatedAt sql.NullString

	err := rows.Scan(
		&n.ID, &typ, &n.RecipientID, &n.SenderID, &articleID, &commentID,
		&n.Message, &read, &n.Seq, &createdAt,
		&username, &displayName, &avatarPath,
		&articleTitle, &articleSlug,
		&commentContent, &commentCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Type = domain.NotificationType(typ)
	n.ArticleID = articleID.String
	n.CommentID = commentID.String
	n.Read = read != 0
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	n.Sender = &domain.Profile{
		ID:          n.SenderID,
		Username:    username,
		DisplayName: displayName,
		AvatarPath:  avatarPath.String,
	}
	if articleID.Valid && articleTitle.Valid {
		n.Article = &domain.Article{
			ID:    articleID.String,
			Title: articleTitle.String,
			Slug:  articleSlug.String,
		}
	}
	if commentID.Valid && commentContent.Valid {
		comment := &domain.Comment{
			ID:        commentID.String,
			ArticleID: articleID.String,
			AuthorID:  n.SenderID,
			Content:   commentContent.String,
		}
		comment.CreatedAt, err = parseTime(commentCreatedAt.String)
		if err != nil {
			return nil, err
		}
		n.Comment = comment
	}

	return &n, nil
}

// MarkNotificationRead marks a single notification read, scoped to its
// recipient. Marking someone else's notification affects zero rows and
// returns store.ErrNotFound.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID, recipientID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?`,
		notificationID, recipientID)
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

// MarkAllNotificationsRead marks every unread notification for the recipient
// read and returns how many rows changed. Scoped to known types: the feed
// and badge never show unknown-type rows, so this write must not consume
// them either.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int, error) {
	known := domain.KnownNotificationTypes()
	args := make([]any, 0, len(known)+1)
	args = append(args, recipientID)
	for _, t := range known {
		args = append(args, string(t))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = 1
		WHERE recipient_id = ? AND read = 0
		  AND type IN (?`+repeatPlaceholder(len(known)-1)+`)`, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountUnreadNotifications returns the recipient's unread count, filtered to
// known types so the badge never exceeds what the feed can show.
func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	known := domain.KnownNotificationTypes()
	args := make([]any, 0, len(known)+1)
	args = append(args, recipientID)
	for _, t := range known {
		args = append(args, string(t))
	}

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = ? AND read = 0
		  AND type IN (?`+repeatPlaceholder(len(known)-1)+`)`, args...).Scan(&n)
	return n, err
}

// GetNotification retrieves a single notification by ID without projections.
func (s *Store) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	var n domain.Notification
	var typ, createdAt string
	var articleID, commentID sql.NullString
	var read int

	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, recipient_id, sender_id, article_id, comment_id, message, read, seq, created_at
		FROM notifications WHERE id = ?`, notificationID).Scan(
		&n.ID, &typ, &n.RecipientID, &n.SenderID, &articleID, &commentID,
		&n.Message, &read, &n.Seq, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	n.Type = domain.NotificationType(typ)
	n.ArticleID = articleID.String
	n.CommentID = commentID.String
	n.Read = read != 0
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
