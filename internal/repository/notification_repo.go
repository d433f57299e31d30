package repository

import (
	"context"
	"database/sql"

	"github.com/driftdock/marina-api/internal/model"
)

// NotificationRepo manages per-user inbox rows.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts an inbox row.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, kind, title, body, related_id) VALUES (?,?,?,?,?)",
		n.UserID, n.Kind, n.Title, n.Body, n.RelatedID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListForUser returns a user's inbox, unread first then newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64, unreadOnly bool) ([]model.Notification, error) {
	q := "SELECT id,user_id,kind,title,body,related_id,is_read,read_at,created_at FROM notifications WHERE user_id=?"
	if unreadOnly {
		q += " AND is_read=0"
	}
	q += " ORDER BY is_read ASC, created_at DESC LIMIT 100"
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body,
			&n.RelatedID, &n.IsRead, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			t := readAt.Time
			n.ReadAt = &t
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread returns the badge count.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}

// MarkRead marks one notification as read, enforcing ownership.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1, read_at=NOW() WHERE id=? AND user_id=? AND is_read=0",
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// MarkAllRead clears the whole inbox.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1, read_at=NOW() WHERE user_id=? AND is_read=0", userID)
	return err
}
