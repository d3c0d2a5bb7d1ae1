package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

type fakeCommentStore struct {
	nextID   uint64
	comments map[uint64]model.Comment
}

func (s *fakeCommentStore) Create(_ context.Context, postID, authorID uint64, content string) (uint64, error) {
	s.nextID++
	s.comments[s.nextID] = model.Comment{
		ID: s.nextID, PostID: postID, AuthorID: authorID, Content: content,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return s.nextID, nil
}

func (s *fakeCommentStore) GetByID(_ context.Context, id uint64) (model.Comment, error) {
	cm, ok := s.comments[id]
	if !ok {
		return model.Comment{}, repository.ErrNotFound
	}
	return cm, nil
}

func (s *fakeCommentStore) ListByPost(_ context.Context, postID uint64) ([]model.Comment, error) {
	var out []model.Comment
	for _, cm := range s.comments {
		if cm.PostID == postID {
			out = append(out, cm)
		}
	}
	return out, nil
}

func (s *fakeCommentStore) Update(_ context.Context, id uint64, content string) error {
	cm, ok := s.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	cm.Content = content
	s.comments[id] = cm
	return nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func newCommentFixture() (*CommentHandler, *fakeCommentStore, *fakePostStore) {
	posts := &fakePostStore{posts: map[uint64]model.Post{
		10: {ID: 10, ThemeID: 1, AuthorID: 42, Title: "t", Content: "c"},
	}}
	comments := &fakeCommentStore{comments: map[uint64]model.Comment{}}
	return NewCommentHandler(comments, posts), comments, posts
}

func TestCommentCreate(t *testing.T) {
	h, comments, _ := newCommentFixture()
	e := echo.New()

	rec := doPost(e, h.Create, http.MethodPost, "/api/posts/10/comments",
		`{"content":"nice"}`, &auth.Principal{UserID: 7}, "id", "10")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, comments.comments, 1)

	// Comments on a missing post are rejected before any write.
	rec = doPost(e, h.Create, http.MethodPost, "/api/posts/99/comments",
		`{"content":"nice"}`, &auth.Principal{UserID: 7}, "id", "99")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, comments.comments, 1)
}

func TestCommentDelete_Ownership(t *testing.T) {
	h, comments, _ := newCommentFixture()
	e := echo.New()

	comments.comments[1] = model.Comment{ID: 1, PostID: 10, AuthorID: 7, Content: "x"}

	rec := doPost(e, h.Delete, http.MethodDelete, "/api/comments/1", "",
		&auth.Principal{UserID: 42}, "id", "1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doPost(e, h.Delete, http.MethodDelete, "/api/comments/1", "",
		&auth.Principal{UserID: 7}, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, comments.comments)
}
