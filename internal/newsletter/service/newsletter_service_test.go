package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/backend/backendtest"
	"github.com/tripnest/tripnest-backend/internal/newsletter/domain"
	"github.com/tripnest/tripnest-backend/internal/newsletter/repository"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (r *recordingMailer) SendWelcome(_ context.Context, email string) error {
	r.sent = append(r.sent, email)
	return r.err
}

func setupNewsletterService(t *testing.T, mailer Mailer) (*NewsletterService, sqlmock.Sqlmock) {
	f, mock := backendtest.NewFactory(t, backendtest.Identities{})
	return NewNewsletterService(repository.NewSubscriberRepository(), f.Public(), mailer), mock
}

func TestNewsletterService_Subscribe(t *testing.T) {
	t.Run("stores and welcomes", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc, mock := setupNewsletterService(t, mailer)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectExec(`INSERT INTO newsletter_subscribers`).
			WithArgs("ada@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Subscribe(context.Background(), " ada@example.com "))
		assert.Equal(t, []string{"ada@example.com"}, mailer.sent)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid email never reaches the backend", func(t *testing.T) {
		svc, mock := setupNewsletterService(t, nil)

		assert.ErrorIs(t, svc.Subscribe(context.Background(), "not-an-email"), domain.ErrInvalidEmail)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc, mock := setupNewsletterService(t, mailer)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectExec(`INSERT INTO newsletter_subscribers`).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Subscribe(context.Background(), "ada@example.com"), domain.ErrAlreadySubscribed)
		assert.Empty(t, mailer.sent)
	})

	t.Run("other backend errors", func(t *testing.T) {
		svc, mock := setupNewsletterService(t, nil)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectExec(`INSERT INTO newsletter_subscribers`).WillReturnError(errors.New("connection refused"))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.Subscribe(context.Background(), "ada@example.com"), domain.ErrSubscribe)
	})

	t.Run("mail failure does not fail the subscription", func(t *testing.T) {
		svc, mock := setupNewsletterService(t, &recordingMailer{err: errors.New("quota exceeded")})

		backendtest.ExpectAnonTx(mock)
		mock.ExpectExec(`INSERT INTO newsletter_subscribers`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, svc.Subscribe(context.Background(), "ada@example.com"))
	})
}

type fakeSender struct {
	got  *mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.got = email
	return f.resp, f.err
}

func TestSendGridMailer(t *testing.T) {
	assert.IsType(t, NopMailer{}, NewSendGridMailer("", "Trips", "news@example.com"))

	sender := &fakeSender{resp: &rest.Response{StatusCode: 202}}
	m := &SendGridMailer{client: sender, from: mail.NewEmail("Trips", "news@example.com")}

	require.NoError(t, m.SendWelcome(context.Background(), "ada@example.com"))
	require.NotNil(t, sender.got)
	assert.Equal(t, "news@example.com", sender.got.From.Address)
	require.Len(t, sender.got.Personalizations, 1)
	assert.Equal(t, "ada@example.com", sender.got.Personalizations[0].To[0].Address)

	sender.resp = &rest.Response{StatusCode: 401, Body: `{"errors":[{"message":"bad key"}]}`}
	assert.Error(t, m.SendWelcome(context.Background(), "ada@example.com"))
}
