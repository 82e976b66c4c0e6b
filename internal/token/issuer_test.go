package token_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/travelapp/travel-auth/internal/domain"
	"github.com/travelapp/travel-auth/internal/token"
)

const (
	testKey      = "issuer-test-secret-at-least-32ch!"
	testIssuer   = "travel-auth"
	testAudience = "travel-app"
)

var testAccount = &domain.Account{ID: "acct-1", Email: "test@example.com"}

func parse(t *testing.T, signed, key string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(signed, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method %v", tk.Method)
		}
		return []byte(key), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("could not cast claims")
	}
	return claims
}

func TestIssue_ClaimsCarryAccountIdentity(t *testing.T) {
	i := token.NewIssuer([]byte(testKey), testIssuer, testAudience, time.Hour)

	signed, _, err := i.Issue(testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := parse(t, signed, testKey)
	if claims["sub"] != testAccount.ID {
		t.Errorf("sub = %v, want %q", claims["sub"], testAccount.ID)
	}
	if claims["email"] != testAccount.Email {
		t.Errorf("email = %v, want %q", claims["email"], testAccount.Email)
	}
	if claims["iss"] != testIssuer {
		t.Errorf("iss = %v, want %q", claims["iss"], testIssuer)
	}
	if claims["aud"] != testAudience {
		t.Errorf("aud = %v, want %q", claims["aud"], testAudience)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("jti claim is empty")
	}
}

func TestIssue_ExpiryMatchesConfiguredLifetime(t *testing.T) {
	const ttl = 45 * time.Minute
	i := token.NewIssuer([]byte(testKey), testIssuer, testAudience, ttl)

	before := time.Now()
	signed, expiresAt, err := i.Issue(testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := before.Add(ttl)
	if diff := expiresAt.Sub(want); diff < 0 || diff > 5*time.Second {
		t.Errorf("expiresAt = %v, want ~%v", expiresAt, want)
	}

	claims := parse(t, signed, testKey)
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("exp claim missing")
	}
	if int64(exp) != expiresAt.Unix() {
		t.Errorf("exp claim %d != returned expiry %d", int64(exp), expiresAt.Unix())
	}
}

func TestIssue_DifferentKeyFailsVerification(t *testing.T) {
	i := token.NewIssuer([]byte(testKey), testIssuer, testAudience, time.Hour)

	signed, _, err := i.Issue(testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = jwt.Parse(signed, func(tk *jwt.Token) (any, error) {
		return []byte("a-completely-different-32char-key"), nil
	})
	if err == nil {
		t.Error("token verified with the wrong key")
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	i := token.NewIssuer([]byte(testKey), testIssuer, testAudience, time.Hour)

	a, _, err := i.Issue(testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, err := i.Issue(testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parse(t, a, testKey)["jti"] == parse(t, b, testKey)["jti"] {
		t.Error("two issued tokens share the same jti")
	}
}
