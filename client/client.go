// Package client is a thin Go client for the travel-auth API. It replaces
// the ambient reactive store of the web frontend with an explicit Session
// value: the caller owns the state, and every operation returns a
// result-with-status instead of mutating globals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Session is the client-side authentication state. The zero value means
// logged out.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Authenticated reports whether the session holds an unexpired token.
func (s Session) Authenticated() bool {
	return s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// Logout is a pure transition to the logged-out state.
func (s Session) Logout() Session {
	return Session{}
}

// Result is the outcome of an auth operation. Code and FieldErrors are set
// on API-level failures; transport failures are returned as errors instead.
type Result struct {
	Success     bool
	Message     string
	Code        string
	FieldErrors map[string][]string
}

type apiEnvelope struct {
	Message   string              `json:"message"`
	Email     string              `json:"email"`
	Token     string              `json:"token"`
	UserID    string              `json:"userId"`
	ExpiresAt time.Time           `json:"expiresAt"`
	Code      string              `json:"code"`
	Errors    map[string][]string `json:"errors"`
}

// Register submits a registration. On success the account is pending email
// confirmation; no session is established.
func (c *Client) Register(ctx context.Context, email, password, confirmPassword string) (Result, error) {
	body := map[string]string{
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}
	status, env, err := c.do(ctx, http.MethodPost, "/auth/register", body)
	if err != nil {
		return Result{}, err
	}
	return toResult(status, http.StatusCreated, env), nil
}

// ConfirmEmail redeems a confirmation token. On success the returned Session
// is authenticated; on failure it is zero and Result carries the error code.
func (c *Client) ConfirmEmail(ctx context.Context, token string) (Session, Result, error) {
	path := "/auth/confirm-email?token=" + url.QueryEscape(token)
	status, env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Session{}, Result{}, err
	}

	res := toResult(status, http.StatusOK, env)
	if !res.Success {
		return Session{}, res, nil
	}
	return Session{
		Token:     env.Token,
		UserID:    env.UserID,
		Email:     env.Email,
		ExpiresAt: env.ExpiresAt,
	}, res, nil
}

// ResendConfirmation requests a fresh confirmation email. The server answer
// is deliberately generic; Success only means the request was accepted.
func (c *Client) ResendConfirmation(ctx context.Context, email string) (Result, error) {
	status, env, err := c.do(ctx, http.MethodPost, "/auth/resend-confirmation", map[string]string{"email": email})
	if err != nil {
		return Result{}, err
	}
	return toResult(status, http.StatusOK, env), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, *apiEnvelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	env := &apiEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return 0, nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, env, nil
}

func toResult(status, wantStatus int, env *apiEnvelope) Result {
	return Result{
		Success:     status == wantStatus,
		Message:     env.Message,
		Code:        env.Code,
		FieldErrors: env.Errors,
	}
}
