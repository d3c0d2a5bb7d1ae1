package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSubs struct {
	ids map[uint64][]uint64
	err error
}

func (f *fakeSubs) SubscriberIDs(_ context.Context, themeID uint64) ([]uint64, error) {
	return f.ids[themeID], f.err
}

type writtenNotification struct {
	userID  uint64
	postID  uint64
	message string
}

type fakeNotifs struct {
	written []writtenNotification
	err     error
}

func (f *fakeNotifs) Create(_ context.Context, userID, postID uint64, message string) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, writtenNotification{userID, postID, message})
	return nil
}

func TestHandlePostCreated_FanOut(t *testing.T) {
	t.Parallel()

	subs := &fakeSubs{ids: map[uint64][]uint64{3: {1, 42, 7}}}
	notifs := &fakeNotifs{}

	body, err := json.Marshal(PostCreatedEvent{
		EventID: "ev-1", PostID: 10, ThemeID: 3, ThemeTitle: "Go",
		AuthorID: 42, AuthorName: "alice", Title: "Generics",
	})
	require.NoError(t, err)

	require.NoError(t, HandlePostCreated(context.Background(), body, subs, notifs))

	// The author is subscribed too but must not be notified about their
	// own post.
	require.Len(t, notifs.written, 2)
	for _, w := range notifs.written {
		require.NotEqual(t, uint64(42), w.userID)
		require.Equal(t, uint64(10), w.postID)
		require.Equal(t, "alice posted in Go: Generics", w.message)
	}
}

func TestHandlePostCreated_NoSubscribers(t *testing.T) {
	t.Parallel()

	subs := &fakeSubs{ids: map[uint64][]uint64{}}
	notifs := &fakeNotifs{}

	body, _ := json.Marshal(PostCreatedEvent{PostID: 10, ThemeID: 3, AuthorID: 42})
	require.NoError(t, HandlePostCreated(context.Background(), body, subs, notifs))
	require.Empty(t, notifs.written)
}

func TestHandlePostCreated_BadPayload(t *testing.T) {
	t.Parallel()

	err := HandlePostCreated(context.Background(), []byte("{not json"), &fakeSubs{}, &fakeNotifs{})
	require.Error(t, err)
}

func TestHandlePostCreated_WriteFailureSurfaces(t *testing.T) {
	t.Parallel()

	subs := &fakeSubs{ids: map[uint64][]uint64{3: {1}}}
	notifs := &fakeNotifs{err: errors.New("db down")}

	body, _ := json.Marshal(PostCreatedEvent{PostID: 10, ThemeID: 3, AuthorID: 42})
	require.Error(t, HandlePostCreated(context.Background(), body, subs, notifs))
}
