// Package repository contains the data access layer, separated from HTTP
// handlers. This file defines sentinel errors reused across repositories so
// handlers can switch on failure kinds instead of inspecting driver errors
// or nil rows.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an insert or update would duplicate the
// unique email column. Handlers translate it into HTTP 409.
var ErrEmailTaken = errors.New("email already exists")

// ErrUsernameTaken is returned when an insert or update would duplicate the
// unique username column. Handlers translate it into HTTP 409.
var ErrUsernameTaken = errors.New("username already exists")

// ErrAlreadySubscribed is returned when a subscription insert collides with
// the composite (user_id, theme_id) primary key, whether detected by the
// cooperative existence check or by the database under a concurrent insert.
// Handlers translate it into HTTP 409.
var ErrAlreadySubscribed = errors.New("already subscribed")

// isDuplicate reports whether err is the MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
