package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidEmail      = errors.New("Invalid email address")
	ErrAlreadySubscribed = errors.New("Email already subscribed")
	ErrSubscribe         = errors.New("Failed to subscribe")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims surrounding whitespace. Case is kept as given.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

type Subscriber struct {
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
