package model

import "time"

// Subscription mirrors the `subscriptions` table. Its identity is the
// composite key (user_id, theme_id): a user subscribes to a theme at most
// once, enforced cooperatively in the service and authoritatively by the
// table's composite primary key.
type Subscription struct {
	UserID       uint64    // subscriptions.user_id (half of the primary key)
	ThemeID      uint64    // subscriptions.theme_id (other half)
	ThemeTitle   string    // themes.title via join, read-only
	SubscribedAt time.Time // subscriptions.subscribed_at
}

// OwnerID identifies the subscribing user for ownership checks.
func (s Subscription) OwnerID() uint64 { return s.UserID }
