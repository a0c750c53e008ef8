package repository

import (
	"context"
	"time"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/newsletter/domain"
	"github.com/tripnest/tripnest-backend/internal/storage/postgres"
)

type SubscriberRepository struct{}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{}
}

// Insert adds a subscriber. A duplicate email yields domain.ErrAlreadySubscribed.
// The anon role may insert but not read, so nothing is returned.
func (r *SubscriberRepository) Insert(ctx context.Context, q backend.Querier, email string, createdAt time.Time) error {
	_, err := q.ExecContext(ctx, `INSERT INTO newsletter_subscribers (email, created_at) VALUES ($1, $2)`, email, createdAt)
	if postgres.IsUniqueViolation(err) {
		return domain.ErrAlreadySubscribed
	}
	return err
}
