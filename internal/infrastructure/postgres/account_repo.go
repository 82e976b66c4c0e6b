package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelapp/travel-auth/internal/domain"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, password_digest, email_confirmed,
	confirmation_token, confirmation_token_expiry, consumed_token,
	created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts
			(id, email, password_digest, email_confirmed, confirmation_token, confirmation_token_expiry)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Email, a.PasswordDigest, a.EmailConfirmed,
		a.ConfirmationToken, a.ConfirmationTokenExpiry,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByConfirmationToken(ctx context.Context, token string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE confirmation_token = $1 OR consumed_token = $1`, token)
	return scanAccount(row)
}

// Confirm atomically activates a pending account, retiring the active token
// into consumed_token. The email_confirmed guard makes concurrent double
// confirmations lose cleanly.
func (r *AccountRepository) Confirm(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET email_confirmed = TRUE,
		    consumed_token = confirmation_token,
		    confirmation_token = NULL,
		    confirmation_token_expiry = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND email_confirmed = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("confirm account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyConfirmed
	}
	return nil
}

func (r *AccountRepository) RotateConfirmationToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET confirmation_token = $2,
		    confirmation_token_expiry = $3,
		    updated_at = NOW()
		WHERE id = $1 AND email_confirmed = FALSE`,
		id, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("rotate confirmation token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyConfirmed
	}
	return nil
}

func (r *AccountRepository) PurgeExpiredUnconfirmed(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM accounts
		WHERE id IN (
			SELECT id FROM accounts
			WHERE email_confirmed = FALSE AND confirmation_token_expiry < $1
			LIMIT $2
		)`,
		cutoff, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired signups: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordDigest, &a.EmailConfirmed,
		&a.ConfirmationToken, &a.ConfirmationTokenExpiry, &a.ConsumedToken,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
