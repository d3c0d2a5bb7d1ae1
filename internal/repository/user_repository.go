package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/devboard/devboard/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with an already-hashed password and returns its ID.
// A duplicate-key failure is mapped to the conflicting column so the caller
// can tell the user which field collided.
func (r *UserRepo) Create(ctx context.Context, email, username, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash) VALUES (?,?,?)",
		email, username, passwordHash)
	if err != nil {
		if isDuplicate(err) {
			return 0, dupUserErr(err)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ExistsByEmail reports whether a user with the normalized email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE email=? LIMIT 1", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ExistsByUsername reports whether a user with the username exists.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username=? LIMIT 1", username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,email,username,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,email,username,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

// UpdateProfile updates email, username and optionally the password hash
// (kept unchanged when empty). Duplicate-key failures map to the
// conflicting column.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, email, username, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var err error
	if passwordHash != "" {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET email=?, username=?, password_hash=?, updated_at=NOW() WHERE id=?",
			email, username, passwordHash, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET email=?, username=?, updated_at=NOW() WHERE id=?",
			email, username, id)
	}
	if isDuplicate(err) {
		return dupUserErr(err)
	}
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// dupUserErr picks the sentinel matching the violated unique key. MySQL's
// 1062 message names the key ("users.email" or "users.username").
func dupUserErr(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "username") {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
