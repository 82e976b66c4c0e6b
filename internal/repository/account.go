package repository

import (
	"context"
	"time"

	"github.com/travelapp/travel-auth/internal/domain"
)

type AccountStore interface {
	// Create persists a new account atomically. A unique violation on the
	// email column is returned as domain.ErrEmailTaken; it is the
	// authoritative duplicate signal under concurrent registrations.
	Create(ctx context.Context, account *domain.Account) error

	// FindByEmail looks up an account by normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// FindByConfirmationToken matches either the active or the consumed
	// confirmation token, so replays of a used link still resolve to the
	// account that consumed it.
	FindByConfirmationToken(ctx context.Context, token string) (*domain.Account, error)

	// Confirm marks the account confirmed, retires the active token and
	// stamps updated_at. Returns domain.ErrAlreadyConfirmed if the account
	// was confirmed concurrently.
	Confirm(ctx context.Context, id string) error

	// RotateConfirmationToken replaces the pending token and expiry.
	// Returns domain.ErrAlreadyConfirmed if the account is no longer pending.
	RotateConfirmationToken(ctx context.Context, id, token string, expiresAt time.Time) error

	// PurgeExpiredUnconfirmed deletes up to limit unconfirmed accounts whose
	// confirmation token expired before cutoff, freeing their emails for
	// re-registration.
	PurgeExpiredUnconfirmed(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}
