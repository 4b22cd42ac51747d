// ABOUTME: Authentication endpoints: login, logout, refresh, registration, current user
// ABOUTME: Response shapes match the backend's JWT auth blueprint

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Profile is the /users/me payload
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RegisterInput is the registration request body
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createdResponse covers the backend's "{msg, *_id}" creation replies
type createdResponse struct {
	Msg       string `json:"msg"`
	UserID    int    `json:"user_id"`
	ItemID    int    `json:"item_id"`
	RequestID int    `json:"request_id"`
}

// Login calls POST /login. The interceptor persists the returned token;
// the caller persists token and profile together.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout calls POST /logout to blacklist the current token server-side
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/logout", nil, nil)
}

// Me calls GET /users/me, the liveness check for a stored token
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "/users/me", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Register calls POST /register and returns the new user's ID
func (c *Client) Register(ctx context.Context, input RegisterInput) (int, error) {
	var resp createdResponse
	if err := c.post(ctx, "/register", input, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// RefreshToken explicitly exchanges the current session for a fresh
// access token. Normal callers never need this: do() refreshes on demand.
func (c *Client) RefreshToken(ctx context.Context) error {
	var resp tokenEnvelope
	return c.do(ctx, http.MethodPost, "/refresh-token", nil, &resp, true)
}

// TokenExpiry decodes the token's expiry claim without verifying the
// signature. Display only; the backend remains the authority on validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
