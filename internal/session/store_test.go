package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

type fakeSource struct {
	mu           sync.Mutex
	subscribed   []string
	unsubscribed int
	handlers     []func(Event)
	err          error
}

func (f *fakeSource) Subscribe(_ context.Context, userID string, fn func(Event)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.subscribed = append(f.subscribed, userID)
	f.handlers = append(f.handlers, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) emit(ev Event) {
	for _, fn := range f.handlers {
		fn(ev)
	}
}

func TestStore_Mount(t *testing.T) {
	ada := &backend.User{ID: "user-1", Email: "ada@example.com"}

	t.Run("starts loading and fetches exactly once", func(t *testing.T) {
		s := NewStore()
		assert.True(t, s.Snapshot().Loading)

		fetches := 0
		src := &fakeSource{}
		err := s.Mount(context.Background(), func(context.Context) *backend.User {
			fetches++
			return ada
		}, src)
		require.NoError(t, err)

		snap := s.Snapshot()
		assert.False(t, snap.Loading)
		assert.Equal(t, ada, snap.User)
		assert.Equal(t, 1, fetches)
		assert.Equal(t, []string{"user-1"}, src.subscribed)
	})

	t.Run("anonymous session does not subscribe", func(t *testing.T) {
		s := NewStore()
		src := &fakeSource{}
		require.NoError(t, s.Mount(context.Background(), func(context.Context) *backend.User { return nil }, src))

		assert.Nil(t, s.Snapshot().User)
		assert.False(t, s.Snapshot().Loading)
		assert.Empty(t, src.subscribed)
	})

	t.Run("subscription failure is returned", func(t *testing.T) {
		s := NewStore()
		src := &fakeSource{err: errors.New("redis down")}
		err := s.Mount(context.Background(), func(context.Context) *backend.User { return ada }, src)
		assert.Error(t, err)
	})
}

func TestStore_ObserversAndEvents(t *testing.T) {
	ada := &backend.User{ID: "user-1", Email: "ada@example.com"}
	s := NewStore()
	src := &fakeSource{}

	var seen []Snapshot
	dispose := s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	require.NoError(t, s.Mount(context.Background(), func(context.Context) *backend.User { return ada }, src))
	require.Len(t, seen, 1)
	assert.Equal(t, ada, seen[0].User)

	renamed := &backend.User{ID: "user-1", Email: "ada@lovelace.dev"}
	src.emit(Event{Type: EventUserUpdated, UserID: "user-1", User: renamed})
	require.Len(t, seen, 2)
	assert.Equal(t, "ada@lovelace.dev", seen[1].User.Email)

	src.emit(Event{Type: EventSignedOut, UserID: "user-1"})
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2].User)

	dispose()
	dispose()
	src.emit(Event{Type: EventSignedIn, UserID: "user-1", User: ada})
	assert.Len(t, seen, 3, "disposed observer must not be called")
	assert.Equal(t, ada, s.Snapshot().User)
}

func TestStore_CloseUnsubscribesOnce(t *testing.T) {
	ada := &backend.User{ID: "user-1"}
	s := NewStore()
	src := &fakeSource{}
	require.NoError(t, s.Mount(context.Background(), func(context.Context) *backend.User { return ada }, src))

	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	s.Close()
	s.Close()
	assert.Equal(t, 1, src.unsubscribed)

	src.emit(Event{Type: EventSignedOut, UserID: "user-1"})
	assert.Equal(t, 0, calls)
	assert.Equal(t, ada, s.Snapshot().User)
}
