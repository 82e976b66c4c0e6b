package email_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/travelapp/travel-auth/internal/email"
)

type captureSender struct {
	to      string
	subject string
	html    string
	err     error
}

func (s *captureSender) Send(_ context.Context, to, subject, html string) error {
	s.to, s.subject, s.html = to, subject, html
	return s.err
}

func TestSendConfirmation_LinkEmbedsToken(t *testing.T) {
	sender := &captureSender{}
	m := email.NewConfirmationMailer(sender, "https://app.example.com/")

	err := m.SendConfirmation(context.Background(), "user@example.com", "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const wantLink = "https://app.example.com/confirm-email?token=tok-123"
	if !strings.Contains(sender.html, wantLink) {
		t.Errorf("body does not contain link %q:\n%s", wantLink, sender.html)
	}
	if sender.to != "user@example.com" {
		t.Errorf("to = %q, want user@example.com", sender.to)
	}
	if sender.subject == "" {
		t.Error("subject is empty")
	}
}

func TestSendConfirmation_TokenIsQueryEscaped(t *testing.T) {
	sender := &captureSender{}
	m := email.NewConfirmationMailer(sender, "https://app.example.com")

	if err := m.SendConfirmation(context.Background(), "user@example.com", "a b&c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sender.html, "?token=a+b%26c") {
		t.Errorf("token not escaped in body:\n%s", sender.html)
	}
}

func TestSendConfirmation_SenderErrorPropagates(t *testing.T) {
	sender := &captureSender{err: context.DeadlineExceeded}
	m := email.NewConfirmationMailer(sender, "https://app.example.com")

	err := m.SendConfirmation(context.Background(), "user@example.com", "tok")
	if err == nil {
		t.Error("want sender error to propagate, got nil")
	}
}

func TestNewSender_DisabledReturnsLogSender(t *testing.T) {
	s := email.NewSender("key", "Travel App <no-reply@example.com>", false, slog.Default())
	if _, ok := s.(*email.LogSender); !ok {
		t.Errorf("sender = %T, want *email.LogSender", s)
	}
	// LogSender never fails.
	if err := s.Send(context.Background(), "a@b.c", "subject", "<p>hi</p>"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSender_EnabledReturnsResendSender(t *testing.T) {
	s := email.NewSender("key", "Travel App <no-reply@example.com>", true, slog.Default())
	if _, ok := s.(*email.ResendSender); !ok {
		t.Errorf("sender = %T, want *email.ResendSender", s)
	}
}
