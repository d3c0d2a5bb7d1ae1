// Package model defines the persisted entities of the devboard domain. The
// structs mirror the database tables one to one; handlers declare their own
// response types with JSON tags where the wire shape differs.
package model

import "time"

// User mirrors the `users` table. Email and username are both unique and
// checked independently at registration. Only the bcrypt hash of the
// password is ever stored.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	Username     string    // users.username (unique)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
