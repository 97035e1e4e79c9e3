// Package client provides an HTTP client for the remote user-management
// service.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the hosted user service.
const DefaultBaseURL = "https://rei-service-844999908851.us-central1.run.app"

// BackendTimeLayout is the timestamp pattern the backend expects on payload
// date fields: microsecond precision, no zone. Timestamp marshals with it.
const BackendTimeLayout = "2006-01-02T15:04:05.000000"

// Client talks to the user service. Login caches the returned bearer token
// on the client for subsequent authenticated calls.
//
// The token and basic credentials are mutated from the main goroutine
// (login, logout) while background submissions read them, so they sit
// behind a mutex.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	basicAuth string

	// loginClient builds the client used for a login attempt. Overridable
	// in tests; defaults to a fresh client per attempt.
	loginClient func() *http.Client
}

// New creates a client for the given base URL. An already-cached bearer
// token may be passed; use "" when not logged in.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ResponseHeaderTimeout: 15 * time.Second,
			},
		},
		loginClient: freshLoginClient,
	}
}

// freshLoginClient returns a client with no reused connections. Login always
// runs on a fresh connection so a stale keep-alive cannot poison the attempt.
func freshLoginClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DisableKeepAlives:     true,
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}
}

// Token returns the cached bearer token, or "" when not logged in.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken replaces the cached bearer token. Pass "" to clear it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SetCredentials stores HTTP basic credentials, used when no bearer token
// is cached.
func (c *Client) SetCredentials(username, password string) {
	raw := username + ":" + password
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basicAuth = "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// ClearCredentials drops stored basic credentials.
func (c *Client) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basicAuth = ""
}

// authorize attaches the Authorization header: bearer token when cached,
// otherwise basic credentials when set.
func (c *Client) authorize(req *http.Request) {
	c.mu.Lock()
	token, basicAuth := c.token, c.basicAuth
	c.mu.Unlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	if basicAuth != "" {
		req.Header.Set("Authorization", basicAuth)
	}
}

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login authenticates and caches the returned bearer token on the client.
//
// A transient transport fault (timeout or lost connection) is retried
// exactly once, on a fresh connection with an explicit Connection: close
// header. Any other failure, or failure of the retry, propagates.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("marshaling login request: %w", err)
	}

	policy := Policy{MaxAttempts: 2, Retryable: retryableLogin}

	var out LoginResponse
	err = policy.Do(ctx, func(attempt int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if attempt > 0 {
			req.Header.Set("Connection", "close")
		}

		slog.Debug("login attempt", "attempt", attempt+1, "url", req.URL.String())

		resp, err := c.loginClient().Do(req)
		if err != nil {
			return &TransportError{Err: err}
		}
		defer closeBody(resp)

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Err: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg := strings.TrimSpace(string(data))
			return &MessageError{Msg: fmt.Sprintf("Login failed (%d): %s", resp.StatusCode, msg)}
		}

		if err := json.Unmarshal(data, &out); err != nil {
			return &DecodeError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.SetToken(out.AccessToken)
	return &out, nil
}

// UserCreate is the request body for POST /users.
type UserCreate struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Note       string `json:"note,omitempty"`
	LeadSource string `json:"lead_source,omitempty"`
}

// User is a user record as returned by the service.
type User struct {
	ID        int        `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Note      string     `json:"note,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CreateUser creates a user from a sign-in. A 4xx response with a
// {"detail": ...} body surfaces the detail as the error message.
func (c *Client) CreateUser(ctx context.Context, payload UserCreate) (*User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer closeBody(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 499 {
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &detail) == nil && detail.Detail != "" {
			return nil, &MessageError{Msg: detail.Detail}
		}
		return nil, &StatusError{Code: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &u, nil
}

// ListUsers returns a page of users. The cached bearer token is attached
// when present.
func (c *Client) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	url := fmt.Sprintf("%s/users?skip=%d&limit=%d", c.baseURL, skip, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer closeBody(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return users, nil
}

// TestAuth probes a protected endpoint to validate the current credentials.
// Any non-2xx response is treated as invalid credentials.
func (c *Client) TestAuth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?limit=1", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &MessageError{Msg: "invalid username/password"}
	}
	return nil
}

// closeBody drains and closes a response body so the connection can be
// reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		slog.Debug("closing response body", "error", err)
	}
}
