package model

import "time"

// Comment mirrors the `comments` table.
type Comment struct {
	ID         uint64    // comments.id
	PostID     uint64    // comments.post_id
	AuthorID   uint64    // comments.author_id
	Content    string    // comments.content
	AuthorName string    // users.username via join, read-only
	CreatedAt  time.Time // comments.created_at
	UpdatedAt  time.Time // comments.updated_at
}

// OwnerID identifies the author for ownership checks.
func (c Comment) OwnerID() uint64 { return c.AuthorID }
