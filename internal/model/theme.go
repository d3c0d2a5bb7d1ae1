package model

import "time"

// Theme mirrors the `themes` table. Themes are the topics users subscribe to
// and posts are filed under; they are seeded, not created through the API.
type Theme struct {
	ID          uint64    // themes.id
	Title       string    // themes.title
	Description string    // themes.description
	CreatedAt   time.Time // themes.created_at
	UpdatedAt   time.Time // themes.updated_at
}
