// Package backendtest builds backend factories over sqlmock for handler and service tests.
package backendtest

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

const SessionCookie = "session"

// ClaimsQuery matches the statement that binds role and claims to a transaction.
var ClaimsQuery = regexp.QuoteMeta("select set_config('role'")

// Identities maps session cookie values to the users they verify as.
type Identities map[string]backend.User

func (i Identities) VerifySession(_ context.Context, session string) (*backend.User, error) {
	u, ok := i[session]
	if !ok {
		return nil, errors.New("invalid session")
	}
	return &u, nil
}

// NewFactory returns a factory backed by sqlmock. The db is closed on cleanup.
func NewFactory(t testing.TB, ids Identities) (*backend.Factory, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f, err := backend.NewFactory(db, ids, backend.Options{
		URL:               "postgres://localhost/app",
		AnonKey:           "anon",
		ServiceRoleKey:    "service",
		SessionCookieName: SessionCookie,
	})
	require.NoError(t, err)
	return f, mock
}

// WithSession attaches a session cookie to req.
func WithSession(req *http.Request, value string) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
	return req
}

// ExpectSessionTx expects a transaction opened for an authenticated user.
func ExpectSessionTx(mock sqlmock.Sqlmock, uid string) {
	mock.ExpectBegin()
	mock.ExpectExec(ClaimsQuery).WithArgs("authenticated", uid).WillReturnResult(sqlmock.NewResult(0, 1))
}

// ExpectAnonTx expects a transaction opened with the anon role.
func ExpectAnonTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(ClaimsQuery).WithArgs("anon", "").WillReturnResult(sqlmock.NewResult(0, 1))
}

// Cookies is an in-memory cookie store.
type Cookies map[string]string

func (c Cookies) Get(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}

func (c Cookies) Set(name, value string, _ backend.CookieOptions) {
	c[name] = value
}

func (c Cookies) Remove(name string, _ backend.CookieOptions) {
	delete(c, name)
}
