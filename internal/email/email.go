package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Sender transmits a single email. Implementations surface transport
// failures to the caller; deciding whether a failure is fatal belongs to the
// orchestration layer.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// LogSender logs emails instead of sending them. Used when sending is
// disabled (local dev, CI).
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, _ string) error {
	s.logger.InfoContext(ctx, "email sending disabled, not sent", "to", to, "subject", subject)
	return nil
}

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a ResendSender when sending is enabled, a LogSender
// otherwise. from should be a display form like "Travel App <no-reply@...>".
func NewSender(apiKey, from string, enabled bool, logger *slog.Logger) Sender {
	if !enabled {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
