package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/tradedash/internal/common"
	"github.com/Veraticus/tradedash/internal/model"
	"github.com/Veraticus/tradedash/internal/service"
)

// API paths served by the backend.
const (
	PathLogin        = "/api/v1/login"
	PathUser         = "/api/v1/user"
	PathTransactions = "/api/v1/transactions"
)

// Envelope is the JSON shape every backend endpoint responds with.
type Envelope struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
	Success bool            `json:"success"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginPayload is returned by a successful login.
type LoginPayload struct {
	ExpiresAt time.Time  `json:"expires_at"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
}

// Remote talks to the tradedash REST backend.
type Remote struct {
	httpClient *http.Client
	baseURL    string
	token      string
	mu         sync.RWMutex
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		r.httpClient = c
	}
}

// WithToken sets a previously obtained session token.
func WithToken(token string) RemoteOption {
	return func(r *Remote) {
		r.token = token
	}
}

// NewRemote creates a client for the backend at baseURL.
func NewRemote(baseURL string, timeout time.Duration, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Login exchanges credentials for a session token, which is kept for later
// calls.
func (r *Remote) Login(ctx context.Context, username, password string) (*LoginPayload, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	env, err := r.do(ctx, http.MethodPost, PathLogin, body)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidCredentials, env.Error)
	}

	var payload LoginPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: login payload: %v", common.ErrMalformedResponse, err)
	}

	r.mu.Lock()
	r.token = payload.Token
	r.mu.Unlock()

	slog.Debug("Logged in to data service", "username", username, "expires_at", payload.ExpiresAt)
	return &payload, nil
}

// CurrentUser returns the user the session belongs to.
func (r *Remote) CurrentUser(ctx context.Context) (*model.User, error) {
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	env, err := r.do(ctx, http.MethodGet, PathUser, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsuccessfulResponse, env.Error)
	}

	var user model.User
	if err := json.Unmarshal(env.Payload, &user); err != nil {
		return nil, fmt.Errorf("%w: user payload: %v", common.ErrMalformedResponse, err)
	}
	return &user, nil
}

// ListTransactions fetches the session user's transactions. An unsuccessful
// envelope is returned as-is with a nil error; transport failures and
// undecodable bodies are errors.
func (r *Remote) ListTransactions(ctx context.Context) (*service.TransactionsResponse, error) {
	if err := r.requireSession(); err != nil {
		return nil, err
	}
	env, err := r.do(ctx, http.MethodGet, PathTransactions, nil)
	if err != nil {
		return nil, err
	}

	resp := &service.TransactionsResponse{
		Success: env.Success,
		Error:   env.Error,
	}
	if !env.Success {
		return resp, nil
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &resp.Payload); err != nil {
			return nil, fmt.Errorf("%w: transactions payload: %v", common.ErrMalformedResponse, err)
		}
	}
	return resp, nil
}

// requireSession fails without a request when neither Login nor WithToken
// has provided a token.
func (r *Remote) requireSession() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.token == "" {
		return common.Permanent(common.ErrNoSession)
	}
	return nil
}

func (r *Remote) do(ctx context.Context, method, path string, body []byte) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r.mu.RLock()
	token := r.token
	r.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, common.Permanent(fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized))
	case resp.StatusCode >= 500:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %s %s returned %d", common.ErrServiceUnavailable, method, path, resp.StatusCode),
			Retryable: true,
		}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, common.Permanent(fmt.Errorf("%w: %s %s returned %d: %v", common.ErrMalformedResponse, method, path, resp.StatusCode, err))
	}
	return &env, nil
}
