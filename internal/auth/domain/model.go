package domain

import (
	"errors"
	"time"

	"github.com/tripnest/tripnest-backend/internal/backend"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrSessionMismatch    = errors.New("session does not match user")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Profile is the application-side record linked to an identity by id.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Action tells whether CreateOrUpdate inserted or updated the row.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// CreateProfileRequest is the admin-trusted create-or-update input.
// Nil fields fall back to the stored values on update and to "" on insert.
type CreateProfileRequest struct {
	UserID   string
	FullName *string
	Email    *string
}

// ProfileData is the session-bound upsert payload.
type ProfileData struct {
	FullName string
	Email    string
}

// UpdateProfileRequest is applied to the caller's own profile.
type UpdateProfileRequest struct {
	FullName  string
	AvatarURL *string
}

// LinkageResult reports whether one sampled identity has a profile.
type LinkageResult struct {
	AuthUser   backend.User `json:"authUser"`
	HasProfile bool         `json:"hasProfile"`
	Profile    *Profile     `json:"profile"`
	Error      *string      `json:"error"`
}

type LinkageReport struct {
	Results   []LinkageResult `json:"results"`
	AllLinked bool            `json:"allLinked"`
}
