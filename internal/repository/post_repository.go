package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devboard/devboard/internal/model"
)

type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "p.id,p.theme_id,p.author_id,p.title,p.content,u.username,p.created_at,p.updated_at"

// Create inserts a post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, themeID, authorID uint64, title, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (theme_id, author_id, title, content) VALUES (?,?,?,?)",
		themeID, authorID, title, content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a post with its author's username joined in.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id=p.author_id WHERE p.id=? LIMIT 1",
		id).Scan(&p.ID, &p.ThemeID, &p.AuthorID, &p.Title, &p.Content, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// Feed returns posts from the themes the user subscribes to, newest first.
func (r *PostRepo) Feed(ctx context.Context, userID uint64) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts p "+
			"JOIN users u ON u.id=p.author_id "+
			"JOIN subscriptions s ON s.theme_id=p.theme_id "+
			"WHERE s.user_id=? ORDER BY p.created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// ListByTheme returns a theme's posts, newest first.
func (r *PostRepo) ListByTheme(ctx context.Context, themeID uint64) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id=p.author_id "+
			"WHERE p.theme_id=? ORDER BY p.created_at DESC",
		themeID)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// Update rewrites a post's title and content.
func (r *PostRepo) Update(ctx context.Context, id uint64, title, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, updated_at=NOW() WHERE id=?",
		title, content, id)
	return err
}

// Delete removes a post and its comments.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE post_id=?", id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	return err
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()
	var out []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.ThemeID, &p.AuthorID, &p.Title, &p.Content, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
