package postgres

import (
	"fmt"
	"net/url"

	"github.com/tripnest/tripnest-backend/config"
)

// DSN normalises the backend URL into a lib/pq connection string.
// sslmode defaults to require in production and disable elsewhere.
func DSN(cfg *config.BackendConfig, env string) (string, error) {
	if cfg.URL == "" {
		return "", fmt.Errorf("BACKEND_URL is required")
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid BACKEND_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid BACKEND_URL scheme %q", u.Scheme)
	}

	q := u.Query()
	if q.Get("sslmode") == "" {
		if env == "production" {
			q.Set("sslmode", "require")
		} else {
			q.Set("sslmode", "disable")
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
