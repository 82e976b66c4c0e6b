package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/travelapp/travel-auth/internal/domain"
)

const defaultSessionTTL = 60 * time.Minute

// Issuer mints signed HS256 session tokens. Validity is stateless: signature
// plus expiry, no server-side revocation. Confirmation gating is the
// caller's job, not the issuer's.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewIssuer(key []byte, issuer, audience string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Issuer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// Issue signs a session token for the account and returns it together with
// its absolute expiry.
func (i *Issuer) Issue(account *domain.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"jti":   uuid.NewString(),
		"iss":   i.issuer,
		"aud":   i.audience,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}
