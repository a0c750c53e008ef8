package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
	"github.com/tripnest/tripnest-backend/internal/backend"
)

const profileColumns = `id, full_name, email, avatar_url, created_at, updated_at`

// ProfileRepository issues profile statements on whatever querier it is handed,
// so the caller's transaction decides the trust level.
type ProfileRepository struct{}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// GetByID retrieves a profile by identity id
func (r *ProfileRepository) GetByID(ctx context.Context, q backend.Querier, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Insert creates a new profile row
func (r *ProfileRepository) Insert(ctx context.Context, q backend.Querier, p *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, email, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns

	return scanProfile(q.QueryRowContext(ctx, query,
		p.ID, p.FullName, p.Email, p.AvatarURL, p.CreatedAt, p.UpdatedAt,
	))
}

// UpdateContact sets full_name, email and updated_at
func (r *ProfileRepository) UpdateContact(ctx context.Context, q backend.Querier, id, fullName, email string, updatedAt time.Time) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $2, email = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(q.QueryRowContext(ctx, query, id, fullName, email, updatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}

// Upsert inserts or updates by id in a single statement
func (r *ProfileRepository) Upsert(ctx context.Context, q backend.Querier, p *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    email = EXCLUDED.email,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	return scanProfile(q.QueryRowContext(ctx, query, p.ID, p.FullName, p.Email, p.CreatedAt, p.UpdatedAt))
}

// UpdateNameAvatar sets full_name, avatar_url and updated_at and returns the touched rows
func (r *ProfileRepository) UpdateNameAvatar(ctx context.Context, q backend.Querier, id, fullName string, avatarURL *string, updatedAt time.Time) ([]domain.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $2, avatar_url = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + profileColumns

	rows, err := q.QueryContext(ctx, query, id, fullName, avatarURL, updatedAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0, 1)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var avatarURL sql.NullString

	if err := row.Scan(&p.ID, &p.FullName, &p.Email, &avatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	// Handle nullable fields
	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	return &p, nil
}
