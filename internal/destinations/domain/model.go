package domain

import (
	"errors"
	"time"
)

var ErrFetchDestinations = errors.New("Failed to fetch destinations")

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Destination is read-only reference data.
type Destination struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Country     *string   `json:"country" db:"country"`
	City        *string   `json:"city" db:"city"`
	Category    *string   `json:"category" db:"category"`
	Rating      *float64  `json:"rating" db:"rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Filters narrows a destination listing. Empty fields are ignored.
// Search matches name or description, case-insensitively.
type Filters struct {
	Category string
	Country  string
	City     string
	Search   string
}
