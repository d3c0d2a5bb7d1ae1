package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devboard/devboard/internal/model"
)

type ThemeRepo struct{ DB *sql.DB }

func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{DB: db} }

// List returns all themes ordered by title.
func (r *ThemeRepo) List(ctx context.Context) ([]model.Theme, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,description,created_at,updated_at FROM themes ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Theme
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches a theme by id.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (model.Theme, error) {
	var t model.Theme
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,description,created_at,updated_at FROM themes WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Theme{}, ErrNotFound
	}
	return t, err
}

// Exists reports whether a theme with the id exists.
func (r *ThemeRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM themes WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
