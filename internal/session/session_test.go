// ABOUTME: Tests for the session controller lifecycle
// ABOUTME: Covers login, logout, hydration, verification, and forced logout

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/store"
)

// fixture wires a controller against a mock backend and temp storage
type fixture struct {
	ctrl   *Controller
	store  *store.Store
	client *api.Client
	server *httptest.Server
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st := store.New(t.TempDir())
	client := api.New(server.URL, st)
	return &fixture{
		ctrl:   New(client, st),
		store:  st,
		client: client,
		server: server,
	}
}

// loginHandler mimics the backend's /login and /logout behavior
func loginHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var creds api.Credentials
			json.NewDecoder(r.Body).Decode(&creds)
			if creds.Username == "alice" && creds.Password == "pw" {
				json.NewEncoder(w).Encode(api.LoginResponse{
					AccessToken: "t1", UserID: 7, Username: "alice", Role: "user",
				})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "Bad username or password"})
		case "/logout":
			json.NewEncoder(w).Encode(map[string]string{"msg": "ok"})
		case "/users/me":
			json.NewEncoder(w).Encode(api.Profile{ID: 7, Username: "alice", Role: "user"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, loginHandler(t))
	f.ctrl.Hydrate()

	result := f.ctrl.Login(context.Background(), "alice", "pw")
	if !result.OK {
		t.Fatalf("expected login success, got %+v", result)
	}

	state := f.ctrl.Snapshot()
	if !state.Authenticated {
		t.Error("expected authenticated state")
	}
	if state.User == nil || state.User.ID != 7 || state.User.Username != "alice" || state.User.Role != "user" {
		t.Errorf("unexpected user %+v", state.User)
	}

	token, user, err := f.store.Load()
	if err != nil {
		t.Fatalf("expected persisted session: %v", err)
	}
	if token != "t1" || user.Username != "alice" {
		t.Errorf("unexpected stored session %q %+v", token, user)
	}
}

func TestLogin_Rejected(t *testing.T) {
	f := newFixture(t, loginHandler(t))
	f.ctrl.Hydrate()

	result := f.ctrl.Login(context.Background(), "alice", "wrong")
	if result.OK {
		t.Fatal("expected login rejection")
	}
	if result.Reason == "" {
		t.Error("expected a user-facing reason")
	}

	// State unchanged: still anonymous, nothing stored
	if f.ctrl.Snapshot().Authenticated {
		t.Error("rejected login must not change state")
	}
	if _, _, err := f.store.Load(); err == nil {
		t.Error("rejected login must not persist anything")
	}
}

func TestLoginLogout_EndsAnonymousAndEmpty(t *testing.T) {
	var sawLogout bool
	var lastAuth string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/logout":
			sawLogout = true
			json.NewEncoder(w).Encode(map[string]string{"msg": "ok"})
		case "/items":
			json.NewEncoder(w).Encode([]api.Item{})
		default:
			loginHandler(t)(w, r)
		}
	})
	f.ctrl.Hydrate()

	if res := f.ctrl.Login(context.Background(), "alice", "pw"); !res.OK {
		t.Fatal("login failed")
	}
	f.ctrl.Logout(context.Background())

	if !sawLogout {
		t.Error("expected best-effort backend logout call")
	}
	state := f.ctrl.Snapshot()
	if state.Authenticated || state.User != nil {
		t.Errorf("expected anonymous state, got %+v", state)
	}
	if _, _, err := f.store.Load(); err == nil {
		t.Error("expected empty storage after logout")
	}

	// No default credential remains configured
	if _, err := f.client.ListItems(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastAuth != "" {
		t.Errorf("expected unauthenticated request after logout, got %q", lastAuth)
	}
}

func TestLogout_BackendFailureStillCleansUp(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"msg": "blacklist unavailable"})
			return
		}
		loginHandler(t)(w, r)
	})
	f.ctrl.Hydrate()

	if res := f.ctrl.Login(context.Background(), "alice", "pw"); !res.OK {
		t.Fatal("login failed")
	}
	f.ctrl.Logout(context.Background())

	if f.ctrl.Snapshot().Authenticated {
		t.Error("backend logout failure must not prevent local cleanup")
	}
	if _, _, err := f.store.Load(); err == nil {
		t.Error("expected empty storage after logout")
	}
}

func TestHydrate_StoredSessionIsProvisionallyAuthenticated(t *testing.T) {
	f := newFixture(t, loginHandler(t))
	if err := f.store.Save("t1", store.User{ID: 7, Username: "alice", Role: "user"}); err != nil {
		t.Fatal(err)
	}

	state := f.ctrl.Hydrate()
	if state.Loading {
		t.Error("loading window must close after hydration")
	}
	if !state.Authenticated || state.User == nil || state.User.Username != "alice" {
		t.Errorf("expected provisional authentication, got %+v", state)
	}

	if err := f.ctrl.Verify(context.Background()); err != nil {
		t.Errorf("expected verification success: %v", err)
	}
	if !f.ctrl.Snapshot().Authenticated {
		t.Error("verified session must stay authenticated")
	}
}

func TestVerify_FailureForcesLogout(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me", "/refresh-token":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "token expired"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	if err := f.store.Save("stale", store.User{ID: 7, Username: "alice", Role: "user"}); err != nil {
		t.Fatal(err)
	}

	f.ctrl.Hydrate()
	if err := f.ctrl.Verify(context.Background()); err == nil {
		t.Fatal("expected verification failure")
	}

	state := f.ctrl.Snapshot()
	if state.Authenticated || state.User != nil {
		t.Errorf("expected anonymous after failed verification, got %+v", state)
	}
	if _, _, err := f.store.Load(); err == nil {
		t.Error("expected storage cleared after failed verification")
	}
	if notice, ok := f.ctrl.TakeExpiredNotice(); !ok || notice == "" {
		t.Error("expected session-expired notice for the login view")
	}
}

func TestHydrate_CorruptedStorageForcesLogout(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir)
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no network call expected, got %s", r.URL.Path)
	}))
	defer server.Close()

	ctrl := New(api.New(server.URL, st), st)
	state := ctrl.Hydrate()
	if state.Authenticated || state.Loading {
		t.Errorf("expected settled anonymous state, got %+v", state)
	}
	if _, _, err := st.Load(); err == nil {
		t.Error("expected corrupted storage cleared")
	}
}

func TestHydrate_NoStoredSession(t *testing.T) {
	f := newFixture(t, loginHandler(t))

	state := f.ctrl.Hydrate()
	if state.Authenticated || state.User != nil || state.Loading {
		t.Errorf("expected immediate anonymous completion, got %+v", state)
	}
	if err := f.ctrl.Verify(context.Background()); err != nil {
		t.Errorf("verify must be a no-op for anonymous sessions: %v", err)
	}
}

func TestHydrate_RunsOnce(t *testing.T) {
	f := newFixture(t, loginHandler(t))

	f.ctrl.Hydrate()
	if res := f.ctrl.Login(context.Background(), "alice", "pw"); !res.OK {
		t.Fatal("login failed")
	}

	// A second hydrate must not reset the established state
	state := f.ctrl.Hydrate()
	if !state.Authenticated {
		t.Error("repeated hydration must not disturb session state")
	}
}

func TestForcedLogout_ViaInterceptor(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			loginHandler(t)(w, r)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "token revoked"})
		}
	})
	f.ctrl.Hydrate()

	if res := f.ctrl.Login(context.Background(), "alice", "pw"); !res.OK {
		t.Fatal("login failed")
	}

	// A data call hits an unrecoverable invalidation: refresh fails too,
	// and the interceptor signals the controller.
	if _, err := f.client.ListItems(context.Background()); err == nil {
		t.Fatal("expected data call to fail")
	}

	state := f.ctrl.Snapshot()
	if state.Authenticated {
		t.Error("expected forced logout after unrecoverable invalidation")
	}
	if _, ok := f.ctrl.TakeExpiredNotice(); !ok {
		t.Error("expected session-expired notice")
	}
	// Notice is consumed exactly once
	if _, ok := f.ctrl.TakeExpiredNotice(); ok {
		t.Error("notice must clear after being taken")
	}
}
