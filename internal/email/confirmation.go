package email

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

const confirmationSubject = "Confirm your email - Travel App"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Travel App</h1>
    <h2>Confirm your email address</h2>
    <p>Thanks for signing up! To activate your account and start planning
    your trips, confirm your email address by clicking the button below:</p>
    <p style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; background: #3B82F6; color: white; padding: 14px 30px; text-decoration: none; border-radius: 8px; font-weight: bold;">Confirm my email</a>
    </p>
    <p><strong>This link expires in 24 hours.</strong>
    If you did not create an account, you can ignore this email.</p>
    <p>If the button does not work, copy this link into your browser:</p>
    <p style="word-break: break-all; color: #3B82F6;">{{.Link}}</p>
    <p style="font-size: 12px; color: #6b7280;">This email was sent to {{.To}}</p>
  </div>
</body>
</html>`))

// ConfirmationMailer renders and sends account-confirmation emails. The link
// points at the frontend, which calls the API back with the embedded token.
type ConfirmationMailer struct {
	sender  Sender
	baseURL string
}

func NewConfirmationMailer(sender Sender, frontendBaseURL string) *ConfirmationMailer {
	return &ConfirmationMailer{
		sender:  sender,
		baseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// SendConfirmation builds the confirmation link for token and dispatches the
// email. Transport errors propagate to the caller.
func (m *ConfirmationMailer) SendConfirmation(ctx context.Context, to, token string) error {
	link := m.baseURL + "/confirm-email?token=" + url.QueryEscape(token)

	var body strings.Builder
	err := confirmationTmpl.Execute(&body, struct {
		Link string
		To   string
	}{Link: link, To: to})
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	return m.sender.Send(ctx, to, confirmationSubject, body.String())
}
