package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devboard/devboard/internal/model"
)

type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// Exists reports whether the composite key (userID, themeID) is present.
// This is the cooperative fast-fail check; the table's composite primary key
// remains the authoritative guard under concurrent inserts.
func (r *SubscriptionRepo) Exists(ctx context.Context, userID, themeID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM subscriptions WHERE user_id=? AND theme_id=? LIMIT 1",
		userID, themeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Create inserts a subscription. A duplicate-key failure from a concurrent
// insert maps to the same ErrAlreadySubscribed the cooperative check yields.
func (r *SubscriptionRepo) Create(ctx context.Context, userID, themeID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscriptions (user_id, theme_id) VALUES (?,?)",
		userID, themeID)
	if isDuplicate(err) {
		return ErrAlreadySubscribed
	}
	return err
}

// Delete removes a subscription, returning ErrNotFound when there was none.
func (r *SubscriptionRepo) Delete(ctx context.Context, userID, themeID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE user_id=? AND theme_id=?",
		userID, themeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's subscriptions with theme titles joined in.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Subscription, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT s.user_id,s.theme_id,t.title,s.subscribed_at FROM subscriptions s "+
			"JOIN themes t ON t.id=s.theme_id WHERE s.user_id=? ORDER BY s.subscribed_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Subscription
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.UserID, &s.ThemeID, &s.ThemeTitle, &s.SubscribedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SubscriberIDs returns the ids of every user subscribed to a theme. The
// notifier uses it to fan out post.created events.
func (r *SubscriptionRepo) SubscriberIDs(ctx context.Context, themeID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM subscriptions WHERE theme_id=?", themeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
