package session

import (
	"context"
	"sync"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

// Snapshot is the observable state of a Store.
type Snapshot struct {
	User    *backend.User `json:"user"`
	Loading bool          `json:"loading"`
}

// Store holds the current user of one session and notifies observers on change.
// It starts in the loading state.
type Store struct {
	mu          sync.Mutex
	state       Snapshot
	observers   map[int]func(Snapshot)
	nextID      int
	unsubscribe func()
	closed      bool
}

func NewStore() *Store {
	return &Store{
		state:     Snapshot{Loading: true},
		observers: make(map[int]func(Snapshot)),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn and returns the handle that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (dispose func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Mount resolves the session once and, for a signed-in user, subscribes to
// change notifications until Close.
func (s *Store) Mount(ctx context.Context, fetch func(context.Context) *backend.User, src Source) error {
	u := fetch(ctx)
	s.set(Snapshot{User: u, Loading: false})

	if u == nil || src == nil {
		return nil
	}

	unsub, err := src.Subscribe(ctx, u.ID, s.apply)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsub()
		return nil
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// Close drops the change subscription and every observer.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.observers = make(map[int]func(Snapshot))
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) apply(ev Event) {
	switch ev.Type {
	case EventSignedOut:
		s.set(Snapshot{User: nil})
	case EventSignedIn, EventUserUpdated:
		if ev.User != nil {
			s.set(Snapshot{User: ev.User})
		}
	}
}

func (s *Store) set(next Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = next
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
