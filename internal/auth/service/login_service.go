package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/session"
)

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*backend.User, string, error)
}

type SessionIssuer interface {
	IssueSession(ctx context.Context, idToken string, ttl time.Duration) (string, error)
	RevokeSessions(ctx context.Context, uid string) error
}

type LoginService struct {
	signIn   Authenticator
	sessions SessionIssuer
	events   session.Publisher
	ttl      time.Duration
}

func NewLoginService(signIn Authenticator, sessions SessionIssuer, events session.Publisher, ttl time.Duration) *LoginService {
	if events == nil {
		events = session.NopPublisher{}
	}
	return &LoginService{signIn: signIn, sessions: sessions, events: events, ttl: ttl}
}

// Login signs in with a password and stores the resulting session in the client's cookies.
func (s *LoginService) Login(ctx context.Context, client *backend.Client, email, password string) (*backend.User, error) {
	user, idToken, err := s.signIn.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	value, err := s.sessions.IssueSession(ctx, idToken, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	client.SetSession(value)

	if err := s.events.Publish(ctx, session.Event{Type: session.EventSignedIn, UserID: user.ID, User: user}); err != nil {
		log.Printf("[login] failed to publish session event: %v", err)
	}
	return user, nil
}

// Logout clears the session cookie and revokes the user's sessions.
func (s *LoginService) Logout(ctx context.Context, client *backend.Client) {
	u := client.User(ctx)
	client.ClearSession()
	if u == nil {
		return
	}

	if err := s.sessions.RevokeSessions(ctx, u.ID); err != nil {
		log.Printf("[login] failed to revoke sessions for %s: %v", u.ID, err)
	}
	if err := s.events.Publish(ctx, session.Event{Type: session.EventSignedOut, UserID: u.ID}); err != nil {
		log.Printf("[login] failed to publish session event: %v", err)
	}
}
