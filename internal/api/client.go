// ABOUTME: HTTP client for the swaphub marketplace API
// ABOUTME: Attaches bearer tokens, refreshes expired sessions once, and replays requests

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/swaphub/swaphub-cli/internal/store"
)

// DefaultTimeout matches the generous timeout the hosted backend needs
// to wake from idle.
const DefaultTimeout = 20 * time.Second

// Client is the API client for the swaphub backend. All calls flow through
// do, which owns credential attachment and the refresh-and-retry cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *store.Store

	mu           sync.RWMutex
	defaultToken string

	refresh singleflight.Group

	expiredMu        sync.Mutex
	onSessionExpired func()
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client (used by tests)
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// New creates a new API client with the given base URL and token store
func New(baseURL string, st *store.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   st,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSessionExpired registers the forced-logout hook invoked when the
// session cannot be recovered. The session controller registers itself
// here after construction.
func (c *Client) OnSessionExpired(fn func()) {
	c.expiredMu.Lock()
	defer c.expiredMu.Unlock()
	c.onSessionExpired = fn
}

// SetAuthToken sets or clears the default bearer credential attached to
// every outgoing request. Empty string clears it.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultToken = token
}

// currentToken returns the default credential, falling back to durable
// storage so a fresh process picks up an existing session.
func (c *Client) currentToken() string {
	c.mu.RLock()
	token := c.defaultToken
	c.mu.RUnlock()
	if token != "" {
		return token
	}
	if c.store == nil {
		return ""
	}
	stored, _, err := c.store.Load()
	if err != nil {
		return ""
	}
	return stored
}

// tokenEnvelope picks a fresh access token out of any response body
type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
}

// isSessionInvalidation reports whether a failure means the current
// credential is no longer valid. The backend signals this with 401 or 422
// and a token-related message.
func isSessionInvalidation(status int, body map[string]any) bool {
	if status != http.StatusUnauthorized && status != http.StatusUnprocessableEntity {
		return false
	}
	msg, _ := body["msg"].(string)
	return strings.Contains(msg, "token")
}

// do issues one request. retried is the per-request marker preventing a
// second refresh cycle for the same original request.
func (c *Client) do(ctx context.Context, method, path string, body, out any, retried bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return normalizeSetup(fmt.Errorf("failed to marshal request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return normalizeSetup(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return normalizeTransport(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransport(ctx, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.captureToken(raw)
		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return &Error{
					Message: fmt.Sprintf("invalid response from backend: %v", err),
					Status:  resp.StatusCode,
				}
			}
		}
		return nil
	}

	var errBody map[string]any
	_ = json.Unmarshal(raw, &errBody)

	if !isSessionInvalidation(resp.StatusCode, errBody) {
		return normalizeResponse(resp.StatusCode, errBody)
	}

	if retried {
		// Second invalidation for the same request: the refreshed token
		// was rejected too, nothing left to try.
		c.expireSession()
		return normalizeResponse(resp.StatusCode, errBody)
	}

	if err := c.refreshToken(ctx); err != nil {
		c.expireSession()
		return err
	}

	return c.do(ctx, method, path, body, out, true)
}

// captureToken persists a fresh access token found in a successful
// response body and mirrors it into the default credential slot. Login
// responses are handled by the session controller, which saves token and
// profile together, so a missing stored session is not an error here.
func (c *Client) captureToken(raw []byte) {
	if len(raw) == 0 {
		return
	}
	var env tokenEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.AccessToken == "" {
		return
	}
	c.SetAuthToken(env.AccessToken)
	if c.store != nil {
		_ = c.store.SetToken(env.AccessToken)
	}
}

// refreshToken calls the refresh endpoint. Concurrent invalidations share
// a single in-flight refresh instead of racing separate calls.
// The refresh request carries the retried marker so its own invalidation
// failure can never trigger another refresh cycle.
func (c *Client) refreshToken(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		var resp tokenEnvelope
		if err := c.do(ctx, http.MethodPost, "/refresh-token", nil, &resp, true); err != nil {
			return nil, err
		}
		return resp.AccessToken, nil
	})
	return err
}

// expireSession clears all credential state and signals the forced-logout
// hook. Safe to call more than once for the same failure.
func (c *Client) expireSession() {
	if c.store != nil {
		_ = c.store.Clear()
	}
	c.SetAuthToken("")

	c.expiredMu.Lock()
	fn := c.onSessionExpired
	c.expiredMu.Unlock()
	if fn != nil {
		fn()
	}
}

// get issues a GET request, decoding the JSON response into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

// post issues a POST request with an optional JSON body
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

// put issues a PUT request with a JSON body
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, false)
}

// patch issues a PATCH request with a JSON body
func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, false)
}

// del issues a DELETE request
func (c *Client) del(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, false)
}
