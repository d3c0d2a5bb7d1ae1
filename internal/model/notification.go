package model

import "time"

// Notification mirrors the `notifications` table. Rows are written by the
// notifier when it consumes post.created events, one per subscriber of the
// post's theme.
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id (recipient)
	PostID    uint64    // notifications.post_id
	Message   string    // notifications.message
	Read      bool      // notifications.is_read
	CreatedAt time.Time // notifications.created_at
}

// OwnerID identifies the recipient for ownership checks.
func (n Notification) OwnerID() uint64 { return n.UserID }
