package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/newsletter/domain"
	"github.com/tripnest/tripnest-backend/internal/newsletter/repository"
)

type NewsletterService struct {
	repo   *repository.SubscriberRepository
	public *backend.Client
	mailer Mailer
	now    func() time.Time
}

func NewNewsletterService(repo *repository.SubscriberRepository, public *backend.Client, mailer Mailer) *NewsletterService {
	if mailer == nil {
		mailer = NopMailer{}
	}
	return &NewsletterService{
		repo:   repo,
		public: public,
		mailer: mailer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe validates and stores the email, then sends a welcome message.
// A failed send is logged and does not fail the subscription.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return domain.ErrInvalidEmail
	}

	err := s.public.WithTx(ctx, func(tx *sql.Tx) error {
		return s.repo.Insert(ctx, tx, email, s.now())
	})
	if errors.Is(err, domain.ErrAlreadySubscribed) {
		return err
	}
	if err != nil {
		log.Printf("[newsletter] subscribe: %v", err)
		return domain.ErrSubscribe
	}

	if err := s.mailer.SendWelcome(ctx, email); err != nil {
		log.Printf("[newsletter] welcome email to %s: %v", email, err)
	}
	return nil
}
