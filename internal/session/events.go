package session

import (
	"context"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

// EventType names a session change.
type EventType string

const (
	EventSignedIn    EventType = "signed_in"
	EventSignedOut   EventType = "signed_out"
	EventUserUpdated EventType = "user_updated"
)

type Event struct {
	Type   EventType     `json:"type"`
	UserID string        `json:"user_id"`
	User   *backend.User `json:"user,omitempty"`
}

// Publisher announces session changes.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Source delivers session changes for one user until the returned func is called.
type Source interface {
	Subscribe(ctx context.Context, userID string, fn func(Event)) (unsubscribe func(), err error)
}
