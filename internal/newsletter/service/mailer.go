package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the welcome message to a new subscriber.
type Mailer interface {
	SendWelcome(ctx context.Context, email string) error
}

type NopMailer struct{}

func (NopMailer) SendWelcome(context.Context, string) error { return nil }

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridMailer struct {
	client mailSender
	from   *mail.Email
}

// NewSendGridMailer returns NopMailer when apiKey is empty.
func NewSendGridMailer(apiKey, fromName, fromEmail string) Mailer {
	if apiKey == "" {
		return NopMailer{}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) SendWelcome(ctx context.Context, email string) error {
	subject := "Welcome aboard"
	to := mail.NewEmail("", email)

	plainTextContent := "Thanks for subscribing. We will send you new destinations and travel experiences as they come up."
	htmlContent := "<strong>Thanks for subscribing.</strong><p>We will send you new destinations and travel experiences as they come up.</p>"

	message := mail.NewSingleEmail(m.from, subject, to, plainTextContent, htmlContent)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
