package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

// Identities is the Firebase-backed identity provider.
type Identities struct {
	client *auth.Client
}

func NewIdentities(client *auth.Client) *Identities {
	return &Identities{client: client}
}

func (i *Identities) VerifySession(ctx context.Context, session string) (*backend.User, error) {
	token, err := i.client.VerifySessionCookie(ctx, session)
	if err != nil {
		return nil, err
	}

	u := &backend.User{ID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		u.Email = email
	}
	return u, nil
}

// IssueSession exchanges a freshly minted ID token for a session cookie value.
func (i *Identities) IssueSession(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	return i.client.SessionCookie(ctx, idToken, ttl)
}

// RevokeSessions invalidates every session issued for uid.
func (i *Identities) RevokeSessions(ctx context.Context, uid string) error {
	return i.client.RevokeRefreshTokens(ctx, uid)
}

// ListUsers returns up to limit identities in provider order.
func (i *Identities) ListUsers(ctx context.Context, limit int) ([]backend.User, error) {
	out := make([]backend.User, 0, limit)

	it := i.client.Users(ctx, "")
	for len(out) < limit {
		rec, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, backend.User{ID: rec.UID, Email: rec.Email})
	}

	return out, nil
}
