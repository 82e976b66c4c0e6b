package domain_test

import (
	"testing"

	"github.com/travelapp/travel-auth/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A@X.com", "a@x.com"},
		{"  user@example.com  ", "user@example.com"},
		{"\tMixed.Case@Example.COM\n", "mixed.case@example.com"},
		{"already@normal.io", "already@normal.io"},
	}
	for _, tc := range cases {
		if got := domain.NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
