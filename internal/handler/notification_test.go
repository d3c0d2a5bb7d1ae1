package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/internal/auth"
	"github.com/devboard/devboard/internal/model"
	"github.com/devboard/devboard/internal/repository"
)

type fakeNotifStore struct {
	notifs map[uint64]model.Notification
}

func (s *fakeNotifStore) GetByID(_ context.Context, id uint64) (model.Notification, error) {
	n, ok := s.notifs[id]
	if !ok {
		return model.Notification{}, repository.ErrNotFound
	}
	return n, nil
}

func (s *fakeNotifStore) ListByUser(_ context.Context, userID uint64) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range s.notifs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNotifStore) MarkRead(_ context.Context, id uint64) error {
	n, ok := s.notifs[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	s.notifs[id] = n
	return nil
}

func TestNotificationMarkRead(t *testing.T) {
	store := &fakeNotifStore{notifs: map[uint64]model.Notification{
		1: {ID: 1, UserID: 7, PostID: 10, Message: "m"},
	}}
	h := NewNotificationHandler(store)
	e := echo.New()

	// Another user's notification cannot be marked.
	rec := doPost(e, h.MarkRead, http.MethodPost, "/api/notifications/1/read", "",
		&auth.Principal{UserID: 42}, "id", "1")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, store.notifs[1].Read)

	rec = doPost(e, h.MarkRead, http.MethodPost, "/api/notifications/1/read", "",
		&auth.Principal{UserID: 7}, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, store.notifs[1].Read)

	rec = doPost(e, h.MarkRead, http.MethodPost, "/api/notifications/9/read", "",
		&auth.Principal{UserID: 7}, "id", "9")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationList_OwnFeedOnly(t *testing.T) {
	store := &fakeNotifStore{notifs: map[uint64]model.Notification{
		1: {ID: 1, UserID: 7},
		2: {ID: 2, UserID: 42},
	}}
	h := NewNotificationHandler(store)
	e := echo.New()

	rec := doPost(e, h.List, http.MethodGet, "/api/notifications", "",
		&auth.Principal{UserID: 7})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":1`)
	require.NotContains(t, rec.Body.String(), `"id":2`)
}
