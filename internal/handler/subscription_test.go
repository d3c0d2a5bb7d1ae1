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

type subKey struct{ userID, themeID uint64 }

// fakeSubStore mimics the composite primary key: Create on an existing
// pair fails the way the MySQL repository does.
type fakeSubStore struct {
	subs      map[subKey]model.Subscription
	raceOnKey *subKey // when set, Exists lies once for this pair
}

func (s *fakeSubStore) Exists(_ context.Context, userID, themeID uint64) (bool, error) {
	k := subKey{userID, themeID}
	if s.raceOnKey != nil && *s.raceOnKey == k {
		s.raceOnKey = nil
		return false, nil
	}
	_, ok := s.subs[k]
	return ok, nil
}

func (s *fakeSubStore) Create(_ context.Context, userID, themeID uint64) error {
	k := subKey{userID, themeID}
	if _, ok := s.subs[k]; ok {
		return repository.ErrAlreadySubscribed
	}
	s.subs[k] = model.Subscription{UserID: userID, ThemeID: themeID}
	return nil
}

func (s *fakeSubStore) Delete(_ context.Context, userID, themeID uint64) error {
	k := subKey{userID, themeID}
	if _, ok := s.subs[k]; !ok {
		return repository.ErrNotFound
	}
	delete(s.subs, k)
	return nil
}

func (s *fakeSubStore) ListByUser(_ context.Context, userID uint64) ([]model.Subscription, error) {
	var out []model.Subscription
	for _, sub := range s.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func newSubFixture() (*SubscriptionHandler, *fakeSubStore) {
	themes := &fakeThemeStore{themes: map[uint64]model.Theme{1: {ID: 1, Title: "Go"}}}
	subs := &fakeSubStore{subs: map[subKey]model.Subscription{}}
	return NewSubscriptionHandler(subs, themes), subs
}

func TestSubscribe(t *testing.T) {
	h, subs := newSubFixture()
	e := echo.New()
	alice := &auth.Principal{UserID: 42}

	rec := doPost(e, h.Subscribe, http.MethodPost, "/api/themes/1/subscribe", "", alice, "id", "1")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, subs.subs, 1)

	// Second attempt hits the fast existence check.
	rec = doPost(e, h.Subscribe, http.MethodPost, "/api/themes/1/subscribe", "", alice, "id", "1")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, subs.subs, 1)
}

// When two requests race past the existence check, the storage constraint
// is the backstop and the loser still sees the same conflict status.
func TestSubscribe_ConcurrentDuplicate(t *testing.T) {
	h, subs := newSubFixture()
	e := echo.New()
	alice := &auth.Principal{UserID: 42}

	subs.subs[subKey{42, 1}] = model.Subscription{UserID: 42, ThemeID: 1}
	subs.raceOnKey = &subKey{42, 1}

	rec := doPost(e, h.Subscribe, http.MethodPost, "/api/themes/1/subscribe", "", alice, "id", "1")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, subs.subs, 1)
}

func TestSubscribe_UnknownTheme(t *testing.T) {
	h, _ := newSubFixture()
	e := echo.New()

	rec := doPost(e, h.Subscribe, http.MethodPost, "/api/themes/9/subscribe", "",
		&auth.Principal{UserID: 42}, "id", "9")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribe_Anonymous(t *testing.T) {
	h, _ := newSubFixture()
	e := echo.New()

	rec := doPost(e, h.Subscribe, http.MethodPost, "/api/themes/1/subscribe", "", nil, "id", "1")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnsubscribe(t *testing.T) {
	h, subs := newSubFixture()
	e := echo.New()
	alice := &auth.Principal{UserID: 42}

	subs.subs[subKey{42, 1}] = model.Subscription{UserID: 42, ThemeID: 1}

	rec := doPost(e, h.Unsubscribe, http.MethodDelete, "/api/themes/1/subscribe", "", alice, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, subs.subs)

	rec = doPost(e, h.Unsubscribe, http.MethodDelete, "/api/themes/1/subscribe", "", alice, "id", "1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
