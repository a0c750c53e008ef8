package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

var (
	ErrMissingURL            = errors.New("backend URL is required")
	ErrMissingAnonKey        = errors.New("backend anon key is required")
	ErrMissingServiceRoleKey = errors.New("backend service role key is required")
	ErrMissingDB             = errors.New("backend database handle is required")
	ErrMissingIdentities     = errors.New("backend identity provider is required")
)

// Level is the trust level a Client operates at.
type Level int

const (
	LevelPublic Level = iota
	LevelSession
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelSession:
		return "session"
	case LevelAdmin:
		return "admin"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// User is an identity owned by the auth provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityProvider resolves a session value into the identity it belongs to.
type IdentityProvider interface {
	VerifySession(ctx context.Context, session string) (*User, error)
}

// Options configures a Factory.
type Options struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string

	SessionCookieName string
	SessionTTL        time.Duration
	SecureCookies     bool
}

// Factory hands out backend clients bound to one of the three trust levels.
type Factory struct {
	db         *sql.DB
	identities IdentityProvider
	opt        Options
	public     *Client
}

func NewFactory(db *sql.DB, identities IdentityProvider, opt Options) (*Factory, error) {
	if opt.URL == "" {
		return nil, ErrMissingURL
	}
	if opt.AnonKey == "" {
		return nil, ErrMissingAnonKey
	}
	if db == nil {
		return nil, ErrMissingDB
	}
	if identities == nil {
		return nil, ErrMissingIdentities
	}
	if opt.SessionCookieName == "" {
		opt.SessionCookieName = "session"
	}
	if opt.SessionTTL == 0 {
		opt.SessionTTL = 5 * 24 * time.Hour
	}

	f := &Factory{db: db, identities: identities, opt: opt}
	f.public = f.newClient(LevelPublic, noopCookies{})
	return f, nil
}

// Public returns the long-lived client used for anonymous reads and writes.
func (f *Factory) Public() *Client {
	return f.public
}

// ForRequest returns a client bound to the cookies of a single request.
func (f *Factory) ForRequest(cookies CookieStore) *Client {
	if cookies == nil {
		cookies = noopCookies{}
	}
	return f.newClient(LevelSession, cookies)
}

// Admin returns a service-role client. It never reads or writes cookies.
func (f *Factory) Admin() (*Client, error) {
	if f.opt.ServiceRoleKey == "" {
		return nil, ErrMissingServiceRoleKey
	}
	return f.newClient(LevelAdmin, noopCookies{}), nil
}

// SessionCookieName is the cookie carrying the session value.
func (f *Factory) SessionCookieName() string {
	return f.opt.SessionCookieName
}

// SessionTTL is the lifetime of newly issued sessions.
func (f *Factory) SessionTTL() time.Duration {
	return f.opt.SessionTTL
}

func (f *Factory) newClient(level Level, cookies CookieStore) *Client {
	return &Client{
		level:      level,
		db:         f.db,
		identities: f.identities,
		cookies:    cookies,
		opt:        f.opt,
	}
}

// Client is a handle to the backend at a fixed trust level.
type Client struct {
	level      Level
	db         *sql.DB
	identities IdentityProvider
	cookies    CookieStore
	opt        Options

	userOnce sync.Once
	user     *User
}

func (c *Client) Level() Level {
	return c.level
}

func (c *Client) Cookies() CookieStore {
	return c.cookies
}

// User resolves the session bound to the client. It returns nil when the client
// has no session or the session does not verify.
func (c *Client) User(ctx context.Context) *User {
	if c.level != LevelSession {
		return nil
	}

	c.userOnce.Do(func() {
		value, ok := c.cookies.Get(c.opt.SessionCookieName)
		if !ok || value == "" {
			return
		}
		u, err := c.identities.VerifySession(ctx, value)
		if err != nil {
			log.Printf("[backend] session rejected: %v", err)
			return
		}
		c.user = u
	})

	return c.user
}

// SetSession stores a session value in the bound cookie store.
func (c *Client) SetSession(value string) {
	c.cookies.Set(c.opt.SessionCookieName, value, c.sessionCookieOptions(int(c.opt.SessionTTL.Seconds())))
}

// ClearSession removes the session cookie.
func (c *Client) ClearSession() {
	c.cookies.Remove(c.opt.SessionCookieName, c.sessionCookieOptions(-1))
}

func (c *Client) sessionCookieOptions(maxAge int) CookieOptions {
	return CookieOptions{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   c.opt.SecureCookies,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// DB returns the raw pool for admin clients. Statements issued on it skip
// row-level policies, so other levels must go through WithTx.
func (c *Client) DB() (Querier, error) {
	if c.level != LevelAdmin {
		return nil, fmt.Errorf("direct access requires the admin client, have %s", c.level)
	}
	return c.db, nil
}

const setClaimsSQL = `select set_config('role', $1, true), set_config('request.jwt.claim.sub', $2, true)`

// WithTx runs fn in a transaction whose role and claims match the trust level.
// Admin transactions keep the connection owner role and bypass row-level policies.
func (c *Client) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	switch c.level {
	case LevelAdmin:
	case LevelSession:
		if u := c.User(ctx); u != nil {
			if _, err := tx.ExecContext(ctx, setClaimsSQL, "authenticated", u.ID); err != nil {
				return fmt.Errorf("set claims: %w", err)
			}
			break
		}
		if _, err := tx.ExecContext(ctx, setClaimsSQL, "anon", ""); err != nil {
			return fmt.Errorf("set claims: %w", err)
		}
	default:
		if _, err := tx.ExecContext(ctx, setClaimsSQL, "anon", ""); err != nil {
			return fmt.Errorf("set claims: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
