package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devboard/devboard/internal/model"
)

type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts a notification row for one recipient.
func (r *NotificationRepo) Create(ctx context.Context, userID, postID uint64, message string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, post_id, message) VALUES (?,?,?)",
		userID, postID, message)
	return err
}

// GetByID fetches a notification by id.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (model.Notification, error) {
	var n model.Notification
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,post_id,message,is_read,created_at FROM notifications WHERE id=? LIMIT 1",
		id).Scan(&n.ID, &n.UserID, &n.PostID, &n.Message, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, ErrNotFound
	}
	return n, err
}

// ListByUser returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,post_id,message,is_read,created_at FROM notifications "+
			"WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.PostID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags a notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=?", id)
	return err
}
