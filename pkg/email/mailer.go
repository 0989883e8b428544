// Package email sends transactional email through Resend.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers email and returns the provider message ID.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendMailer sends through the Resend API. Without an API key it runs in
// mock mode: sends are logged and a mock message ID is returned, so local
// development works without credentials.
type ResendMailer struct {
	client      *resend.Client
	logger      *slog.Logger
	defaultFrom string
}

func NewResendMailer(logger *slog.Logger, apiKey, defaultFrom string) *ResendMailer {
	mailer := &ResendMailer{
		logger:      logger.With("module", "email"),
		defaultFrom: defaultFrom,
	}

	if apiKey != "" {
		mailer.client = resend.NewClient(apiKey)
	} else {
		mailer.logger.Warn("RESEND_API_KEY not set, running in mock mode")
	}

	return mailer
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	if msg.From == "" {
		msg.From = m.defaultFrom
	}

	if m.client == nil {
		m.logger.Info("Mock email send",
			"to", msg.To,
			"subject", msg.Subject,
		)

		return fmt.Sprintf("email-mock-%d", time.Now().UnixMilli()), nil
	}

	request := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	response, err := m.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return response.Id, nil
}
