// ABOUTME: Owns in-memory authentication state: hydration, login, logout, forced logout
// ABOUTME: Sole writer of session state; all mutation goes through its operations

package session

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/debuglog"
	"github.com/swaphub/swaphub-cli/internal/store"
)

// State is a read-only snapshot of the session.
// Invariant: Authenticated == (User != nil) == token present in storage.
type State struct {
	User          *store.User
	Authenticated bool
	Loading       bool
}

// LoginResult reports a login attempt without using errors for the
// expected rejection path.
type LoginResult struct {
	OK     bool
	Reason string
}

// Controller coordinates the API client and token store and owns the
// in-memory session state.
type Controller struct {
	api   *api.Client
	store *store.Store

	mu            sync.RWMutex
	user          *store.User
	authenticated bool
	loading       bool
	hydrated      bool
	expiredNotice string
}

// New creates a session controller and registers it as the client's
// forced-logout target. State starts in the loading window until Hydrate
// runs.
func New(apiClient *api.Client, st *store.Store) *Controller {
	c := &Controller{
		api:     apiClient,
		store:   st,
		loading: true,
	}
	apiClient.OnSessionExpired(func() {
		c.ForcedLogout("Your session has expired. Please log in again.")
	})
	return c
}

// Snapshot returns the current session state
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var user *store.User
	if c.user != nil {
		u := *c.user
		user = &u
	}
	return State{
		User:          user,
		Authenticated: c.authenticated,
		Loading:       c.loading,
	}
}

// TakeExpiredNotice returns and clears the pending session-expired
// message, if any. The login view renders it once.
func (c *Controller) TakeExpiredNotice() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	notice := c.expiredNotice
	c.expiredNotice = ""
	return notice, notice != ""
}

// Hydrate runs the one-time startup read of durable storage. A stored
// token makes the session provisionally authenticated; call Verify
// afterward to confirm liveness against the backend. Corrupted storage
// is treated like failed verification. The loading window closes
// unconditionally once the read and parse complete.
func (c *Controller) Hydrate() State {
	c.mu.Lock()
	if c.hydrated {
		c.mu.Unlock()
		return c.Snapshot()
	}
	c.hydrated = true
	c.mu.Unlock()

	token, user, err := c.store.Load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No stored session: anonymous
	case err != nil:
		debuglog.Error("failed to read stored session, forcing logout", err)
		c.ForcedLogout("Stored session was unreadable. Please log in again.")
	default:
		c.api.SetAuthToken(token)
		c.mu.Lock()
		c.user = &user
		c.authenticated = true
		c.mu.Unlock()
		debuglog.Info("session hydrated from storage", "username", user.Username, "role", user.Role)
	}

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	return c.Snapshot()
}

// Verify confirms the stored token is still live by calling the backend.
// Failure forces a logout. No-op for anonymous sessions.
func (c *Controller) Verify(ctx context.Context) error {
	if !c.Snapshot().Authenticated {
		return nil
	}
	if _, err := c.api.Me(ctx); err != nil {
		debuglog.Error("token verification failed, forcing logout", err)
		// The client's interceptor may already have forced the logout;
		// doing it again is harmless and covers non-invalidation failures.
		c.ForcedLogout("Your session has expired. Please log in again.")
		return err
	}
	debuglog.Debug("token verified against backend")
	return nil
}

// HydrateAndVerify runs hydration and synchronous verification, for
// one-shot command use where there is no UI to verify behind.
func (c *Controller) HydrateAndVerify(ctx context.Context) State {
	c.Hydrate()
	_ = c.Verify(ctx)
	return c.Snapshot()
}

// Login authenticates against the backend. On success it persists token
// and profile as a unit, updates in-memory state, and configures the
// client's default credential. Rejection is a result, not an error.
func (c *Controller) Login(ctx context.Context, username, password string) LoginResult {
	resp, err := c.api.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		debuglog.Warn("login failed", "username", username, "error", err)
		reason := "Login failed. Please check your username and password."
		if apiErr, ok := api.AsError(err); ok && apiErr.IsTransport() {
			reason = apiErr.Message
		}
		return LoginResult{OK: false, Reason: reason}
	}

	user := store.User{ID: resp.UserID, Username: resp.Username, Role: resp.Role}
	if err := c.store.Save(resp.AccessToken, user); err != nil {
		debuglog.Error("failed to persist session", err)
	}
	c.api.SetAuthToken(resp.AccessToken)

	c.mu.Lock()
	c.user = &user
	c.authenticated = true
	c.expiredNotice = ""
	c.mu.Unlock()

	debuglog.Info("login succeeded", "username", user.Username, "role", user.Role)
	return LoginResult{OK: true}
}

// Logout calls the backend to blacklist the token, then unconditionally
// performs the client-side cleanup. Backend failure is logged, never
// surfaced, and never prevents the local logout.
func (c *Controller) Logout(ctx context.Context) {
	if c.Snapshot().Authenticated {
		if err := c.api.Logout(ctx); err != nil {
			debuglog.Warn("backend logout failed, continuing with local cleanup", "error", err)
		} else {
			debuglog.Info("backend logout succeeded")
		}
	}
	c.clientSideLogout("")
}

// ForcedLogout is the system-initiated session termination: clears
// storage, state, and the default credential, and records the notice the
// login view should show.
func (c *Controller) ForcedLogout(notice string) {
	c.clientSideLogout(notice)
}

// clientSideLogout clears all session state, keeping store, in-memory
// state, and the client's credential slot in lockstep.
func (c *Controller) clientSideLogout(notice string) {
	if err := c.store.Clear(); err != nil {
		debuglog.Error("failed to clear stored session", err)
	}
	c.api.SetAuthToken("")

	c.mu.Lock()
	c.user = nil
	c.authenticated = false
	if notice != "" {
		c.expiredNotice = notice
	}
	c.mu.Unlock()
}
