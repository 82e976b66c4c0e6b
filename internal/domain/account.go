package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrTokenInvalid     = errors.New("confirmation token is invalid")
	ErrTokenExpired     = errors.New("confirmation token has expired")
	ErrAlreadyConfirmed = errors.New("email is already confirmed")
)

// MaxEmailLength bounds the normalized email; the accounts table column
// matches it.
const MaxEmailLength = 256

// Account is a registered user identity. Email is stored normalized and is
// unique case-insensitively. ConfirmationToken and ConfirmationTokenExpiry
// are both nil or both set; a confirmed account has neither, but keeps the
// consumed token so replayed confirmation links can be told apart from
// garbage tokens.
type Account struct {
	ID                      string
	Email                   string
	PasswordDigest          string
	EmailConfirmed          bool
	ConfirmationToken       *string
	ConfirmationTokenExpiry *time.Time
	ConsumedToken           *string
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}

// NormalizeEmail lower-cases and trims an email address. The normalized form
// is the uniqueness key for accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
