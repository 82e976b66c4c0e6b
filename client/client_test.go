package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/travelapp/travel-auth/client"
)

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusCreated, map[string]string{
		"message": "check your email",
		"email":   "new@example.com",
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).Register(context.Background(),
		"new@example.com", "s3cretpass", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Errorf("success = false, result %+v", res)
	}
	if res.Message != "check your email" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestRegister_Conflict_CarriesCode(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusConflict, map[string]string{
		"code":    "EMAIL_EXISTS",
		"message": "An account with this email already exists",
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).Register(context.Background(),
		"dup@example.com", "s3cretpass", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Error("success = true for 409")
	}
	if res.Code != "EMAIL_EXISTS" {
		t.Errorf("code = %q, want EMAIL_EXISTS", res.Code)
	}
}

func TestRegister_ValidationErrors_Exposed(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusBadRequest, map[string]any{
		"code":    "VALIDATION_ERROR",
		"message": "Invalid request",
		"errors":  map[string][]string{"password": {"must be at least 8 characters"}},
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).Register(context.Background(), "a@x.com", "short", "short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.FieldErrors["password"]) != 1 {
		t.Errorf("field errors = %v", res.FieldErrors)
	}
}

func TestConfirmEmail_Success_PopulatesSession(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "tok-1" {
			t.Errorf("token query = %q", got)
		}
		jsonHandler(http.StatusOK, map[string]any{
			"token":     "signed.jwt",
			"email":     "a@x.com",
			"userId":    "acct-1",
			"expiresAt": expires,
		})(w, r)
	}))
	defer srv.Close()

	sess, res, err := client.New(srv.URL).ConfirmEmail(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("success = false, result %+v", res)
	}
	if sess.Token != "signed.jwt" || sess.UserID != "acct-1" || sess.Email != "a@x.com" {
		t.Errorf("session = %+v", sess)
	}
	if !sess.Authenticated() {
		t.Error("session should be authenticated")
	}
}

func TestConfirmEmail_Expired_ZeroSession(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusBadRequest, map[string]string{
		"code":    "TOKEN_EXPIRED",
		"message": "The confirmation link has expired. Request a new one.",
	}))
	defer srv.Close()

	sess, res, err := client.New(srv.URL).ConfirmEmail(context.Background(), "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Error("success = true for expired token")
	}
	if res.Code != "TOKEN_EXPIRED" {
		t.Errorf("code = %q", res.Code)
	}
	if sess != (client.Session{}) {
		t.Errorf("session not zero: %+v", sess)
	}
}

func TestLogout_IsPureTransition(t *testing.T) {
	sess := client.Session{
		Token:     "signed.jwt",
		UserID:    "acct-1",
		Email:     "a@x.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	out := sess.Logout()
	if out != (client.Session{}) {
		t.Errorf("logout result not zero: %+v", out)
	}
	if sess.Token != "signed.jwt" {
		t.Error("logout mutated the receiver")
	}
	if out.Authenticated() {
		t.Error("logged-out session reports authenticated")
	}
}

func TestResendConfirmation_Generic(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]string{
		"message": "If an account exists with this email, a new confirmation link has been sent.",
		"email":   "ghost@example.com",
	}))
	defer srv.Close()

	res, err := client.New(srv.URL).ResendConfirmation(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Message == "" {
		t.Errorf("result = %+v", res)
	}
}

func TestSession_ExpiredTokenNotAuthenticated(t *testing.T) {
	sess := client.Session{Token: "signed.jwt", ExpiresAt: time.Now().Add(-time.Minute)}
	if sess.Authenticated() {
		t.Error("expired session reports authenticated")
	}
}
