package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devboard/devboard/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentColumns = "c.id,c.post_id,c.author_id,c.content,u.username,c.created_at,c.updated_at"

// Create inserts a comment and returns its ID.
func (r *CommentRepo) Create(ctx context.Context, postID, authorID uint64, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, author_id, content) VALUES (?,?,?)",
		postID, authorID, content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a comment with its author's username joined in.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments c JOIN users u ON u.id=c.author_id WHERE c.id=? LIMIT 1",
		id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.AuthorName, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	return c, err
}

// ListByPost returns a post's comments, oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments c JOIN users u ON u.id=c.author_id "+
			"WHERE c.post_id=? ORDER BY c.created_at",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.AuthorName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a comment's content.
func (r *CommentRepo) Update(ctx context.Context, id uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET content=?, updated_at=NOW() WHERE id=?", content, id)
	return err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	return err
}
