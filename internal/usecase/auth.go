package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/travelapp/travel-auth/internal/domain"
	"github.com/travelapp/travel-auth/internal/metrics"
	"github.com/travelapp/travel-auth/internal/password"
	"github.com/travelapp/travel-auth/internal/repository"
)

const (
	defaultConfirmTokenTTL = 24 * time.Hour

	// Mail dispatch is best-effort: it gets a short deadline and is never
	// retried inside the request path.
	mailDispatchTimeout = 5 * time.Second

	msgRegistered    = "Registration successful! Check your email to activate your account."
	msgResendGeneric = "If an account exists with this email, a new confirmation link has been sent."
)

// Mailer dispatches a confirmation email carrying the raw token.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, token string) error
}

// SessionIssuer mints a signed session token for an account.
type SessionIssuer interface {
	Issue(account *domain.Account) (string, time.Time, error)
}

// AuthUsecase drives an account from registration through email confirmation
// to an authenticated session. The store is the source of truth; email is
// best-effort.
type AuthUsecase struct {
	accounts   repository.AccountStore
	hasher     password.Hasher
	issuer     SessionIssuer
	mailer     Mailer
	logger     *slog.Logger
	confirmTTL time.Duration
}

func NewAuthUsecase(
	accounts repository.AccountStore,
	hasher password.Hasher,
	issuer SessionIssuer,
	mailer Mailer,
	logger *slog.Logger,
	confirmTTL time.Duration,
) *AuthUsecase {
	if confirmTTL <= 0 {
		confirmTTL = defaultConfirmTokenTTL
	}
	return &AuthUsecase{
		accounts:   accounts,
		hasher:     hasher,
		issuer:     issuer,
		mailer:     mailer,
		logger:     logger.With("component", "auth_usecase"),
		confirmTTL: confirmTTL,
	}
}

// RegisterInput carries pre-validated registration fields. Syntax validation
// (email format, password policy, confirm-password equality) happens at the
// transport boundary before this runs.
type RegisterInput struct {
	Email    string
	Password string
}

// RegisterResult is the acknowledgement returned by Register and
// ResendConfirmation. Never a session token: an unconfirmed account is not
// usable yet.
type RegisterResult struct {
	Message string
	Email   string
}

// AuthResult is the authenticated session returned by ConfirmEmail, the only
// path that logs a user in automatically.
type AuthResult struct {
	Token     string
	Email     string
	UserID    string
	ExpiresAt time.Time
}

// Register creates an unconfirmed account, issues a confirmation token and
// dispatches the confirmation email. The email lookup is an optimization
// only; the unique constraint on insert is the authoritative duplicate
// signal under concurrent registrations.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	normalized := domain.NormalizeEmail(input.Email)

	if _, err := u.accounts.FindByEmail(ctx, normalized); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("email_exists").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	digest, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	confirmToken, err := newConfirmationToken()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}
	expiry := time.Now().Add(u.confirmTTL)

	account := &domain.Account{
		ID:                      uuid.NewString(),
		Email:                   normalized,
		PasswordDigest:          digest,
		EmailConfirmed:          false,
		ConfirmationToken:       &confirmToken,
		ConfirmationTokenExpiry: &expiry,
	}

	if err := u.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("email_exists").Inc()
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	u.logger.InfoContext(ctx, "account registered, pending confirmation", "email", normalized)

	u.dispatchConfirmation(ctx, normalized, confirmToken)

	return &RegisterResult{Message: msgRegistered, Email: normalized}, nil
}

// ConfirmEmail consumes a confirmation token, activates the account and
// signs the caller in.
func (u *AuthUsecase) ConfirmEmail(ctx context.Context, rawToken string) (*AuthResult, error) {
	if rawToken == "" {
		return nil, domain.ErrTokenInvalid
	}

	account, err := u.accounts.FindByConfirmationToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.ConfirmationsTotal.WithLabelValues("invalid_token").Inc()
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("lookup confirmation token: %w", err)
	}

	// A confirmed account has a nil expiry (its token was consumed), so the
	// expiry check only fires for pending accounts and replays fall through
	// to the already-confirmed rejection below.
	if account.ConfirmationTokenExpiry != nil && account.ConfirmationTokenExpiry.Before(time.Now()) {
		metrics.ConfirmationsTotal.WithLabelValues("token_expired").Inc()
		return nil, domain.ErrTokenExpired
	}

	if account.EmailConfirmed {
		metrics.ConfirmationsTotal.WithLabelValues("already_confirmed").Inc()
		return nil, domain.ErrAlreadyConfirmed
	}

	if err := u.accounts.Confirm(ctx, account.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyConfirmed) {
			// Lost a race against a concurrent confirmation of the same token.
			metrics.ConfirmationsTotal.WithLabelValues("already_confirmed").Inc()
			return nil, domain.ErrAlreadyConfirmed
		}
		return nil, fmt.Errorf("confirm account: %w", err)
	}
	account.EmailConfirmed = true

	signed, expiresAt, err := u.issuer.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	metrics.ConfirmationsTotal.WithLabelValues("confirmed").Inc()
	u.logger.InfoContext(ctx, "email confirmed", "email", account.Email)

	return &AuthResult{
		Token:     signed,
		Email:     account.Email,
		UserID:    account.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// ResendConfirmation rotates the confirmation token for a pending account
// and re-sends the email. The returned acknowledgement is identical whether
// or not the account exists or is already confirmed; response shape never
// discloses account state.
func (u *AuthUsecase) ResendConfirmation(ctx context.Context, emailAddr string) (*RegisterResult, error) {
	normalized := domain.NormalizeEmail(emailAddr)
	generic := &RegisterResult{Message: msgResendGeneric, Email: normalized}

	metrics.ResendsTotal.Inc()

	account, err := u.accounts.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return generic, nil
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if account.EmailConfirmed {
		return generic, nil
	}

	confirmToken, err := newConfirmationToken()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}
	expiry := time.Now().Add(u.confirmTTL)

	if err := u.accounts.RotateConfirmationToken(ctx, account.ID, confirmToken, expiry); err != nil {
		if errors.Is(err, domain.ErrAlreadyConfirmed) {
			// Confirmed between lookup and rotate; still nothing to disclose.
			return generic, nil
		}
		return nil, fmt.Errorf("rotate confirmation token: %w", err)
	}

	u.dispatchConfirmation(ctx, normalized, confirmToken)

	return generic, nil
}

// dispatchConfirmation sends the confirmation email with a short deadline.
// Failure is logged and absorbed: the account row is already committed and
// the user can request a resend. The timeout context is detached from the
// request so a client disconnect does not abort an in-flight send.
func (u *AuthUsecase) dispatchConfirmation(ctx context.Context, to, confirmToken string) {
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailDispatchTimeout)
	defer cancel()

	if err := u.mailer.SendConfirmation(mailCtx, to, confirmToken); err != nil {
		metrics.EmailsDispatchedTotal.WithLabelValues("failed").Inc()
		u.logger.WarnContext(ctx, "confirmation email not delivered", "email", to, "error", err)
		return
	}
	metrics.EmailsDispatchedTotal.WithLabelValues("sent").Inc()
}

// newConfirmationToken returns a 128-bit random token, hex encoded.
func newConfirmationToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
