package model

import "time"

// Post mirrors the `posts` table. AuthorName is populated by joined reads
// and not written back.
type Post struct {
	ID         uint64    // posts.id
	ThemeID    uint64    // posts.theme_id
	AuthorID   uint64    // posts.author_id
	Title      string    // posts.title
	Content    string    // posts.content
	AuthorName string    // users.username via join, read-only
	CreatedAt  time.Time // posts.created_at
	UpdatedAt  time.Time // posts.updated_at
}

// OwnerID identifies the author for ownership checks.
func (p Post) OwnerID() uint64 { return p.AuthorID }
