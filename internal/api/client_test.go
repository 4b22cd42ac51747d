// ABOUTME: Tests for the API client's interceptor behavior
// ABOUTME: Uses httptest backends to exercise refresh, retry, and forced logout

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/swaphub/swaphub-cli/internal/store"
)

// newTestStore returns a store seeded with a session
func newTestStore(t *testing.T, token string) *store.Store {
	t.Helper()
	s := store.New(t.TempDir())
	if token != "" {
		if err := s.Save(token, store.User{ID: 7, Username: "alice", Role: store.RoleUser}); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Item{})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, "t1"))
	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer t1" {
		t.Errorf("expected Bearer t1, got %q", gotAuth)
	}
}

func TestDo_UnauthenticatedWithoutToken(t *testing.T) {
	var gotAuth string
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]Item{})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, ""))
	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID header on every request")
	}
}

func TestDo_RefreshAndReplay(t *testing.T) {
	st := newTestStore(t, "t1")

	var refreshCalls int32
	var itemCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "t2"})
		case "/items":
			atomic.AddInt32(&itemCalls, 1)
			if r.Header.Get("Authorization") != "Bearer t2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"msg": "token expired"})
				return
			}
			json.NewEncoder(w).Encode([]Item{{ID: 1, Title: "bicycle"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL, st)

	// Caller observes only the final success, never the intermediate 401
	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "bicycle" {
		t.Errorf("expected replayed request to succeed, got %+v", items)
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("expected exactly one refresh call, got %d", n)
	}
	if n := atomic.LoadInt32(&itemCalls); n != 2 {
		t.Errorf("expected original + replay, got %d calls", n)
	}

	// The fresh token was persisted
	token, _, err := st.Load()
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if token != "t2" {
		t.Errorf("expected refreshed token persisted, got %q", token)
	}
}

func TestDo_RetriedRequestNeverRefreshesTwice(t *testing.T) {
	st := newTestStore(t, "t1")

	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "t2"})
		default:
			// Every data call fails with an invalidation signal,
			// including the replay with the fresh token.
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "token revoked"})
		}
	}))
	defer server.Close()

	c := New(server.URL, st)
	expired := false
	c.OnSessionExpired(func() { expired = true })

	_, err := c.ListItems(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("expected exactly one refresh cycle, got %d", n)
	}
	if !expired {
		t.Error("expected forced-logout signal after retried request failed")
	}
	if _, _, err := st.Load(); err == nil {
		t.Error("expected store cleared after unrecoverable invalidation")
	}
}

func TestDo_RefreshFailureForcesLogout(t *testing.T) {
	st := newTestStore(t, "t1")

	refreshServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "refresh token expired"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"msg": "token expired"})
		}
	}))
	defer refreshServer.Close()

	c := New(refreshServer.URL, st)
	expired := false
	c.OnSessionExpired(func() { expired = true })

	_, err := c.ListItems(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// The surfaced error is the refresh failure, not the original 401
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected normalized error, got %T", err)
	}
	if apiErr.Message != "refresh token expired" {
		t.Errorf("expected refresh failure surfaced, got %q", apiErr.Message)
	}
	if !expired {
		t.Error("expected forced-logout signal after refresh failure")
	}
	if _, _, err := st.Load(); err == nil {
		t.Error("expected store cleared after refresh failure")
	}
}

func TestDo_Non401ErrorPropagatesWithoutRefresh(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/refresh-token" {
			atomic.AddInt32(&refreshCalls, 1)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Item not found"})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, "t1"))
	_, err := c.GetItem(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected normalized error, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Item not found" {
		t.Errorf("unexpected normalized error: %+v", apiErr)
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Error("404 must not trigger a refresh")
	}
}

func TestDo_401WithoutTokenKeywordIsNotInvalidation(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/refresh-token" {
			atomic.AddInt32(&refreshCalls, 1)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Bad username or password"})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, ""))
	_, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "wrong"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Error("credential rejection must not trigger a refresh")
	}
}

func TestDo_ConcurrentInvalidationsShareOneRefresh(t *testing.T) {
	st := newTestStore(t, "t1")

	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh-token":
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(50 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "t2"})
		default:
			if r.Header.Get("Authorization") != "Bearer t2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"msg": "token expired"})
				return
			}
			json.NewEncoder(w).Encode([]Item{})
		}
	}))
	defer server.Close()

	c := New(server.URL, st)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.ListItems(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d: unexpected error: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("expected concurrent callers to share one refresh, got %d", n)
	}
}

func TestDo_TransportError(t *testing.T) {
	c := New("http://127.0.0.1:0", newTestStore(t, ""))
	_, err := c.ListItems(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected normalized error, got %T", err)
	}
	if !apiErr.IsTransport() {
		t.Errorf("expected transport sentinel status 0, got %d", apiErr.Status)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode([]Item{})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, ""))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListItems(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
	apiErr, _ := AsError(err)
	if apiErr == nil || apiErr.Message != "request canceled" {
		t.Errorf("expected canceled message, got %v", err)
	}
}

func TestLogin_PersistsTokenFromResponseBody(t *testing.T) {
	st := newTestStore(t, "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "t1", UserID: 7, Username: "alice", Role: "user",
		})
	}))
	defer server.Close()

	c := New(server.URL, st)
	resp, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken != "t1" || resp.UserID != 7 || resp.Role != "user" {
		t.Errorf("unexpected login response: %+v", resp)
	}

	// Token is mirrored into the default credential slot immediately
	if got := c.currentToken(); got != "t1" {
		t.Errorf("expected default credential t1, got %q", got)
	}
}

func TestSetAuthToken_OverridesStore(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Item{})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, "stored"))
	c.SetAuthToken("configured")
	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer configured" {
		t.Errorf("expected default credential to win, got %q", gotAuth)
	}

	c.SetAuthToken("")
	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer stored" {
		t.Errorf("expected fallback to stored token, got %q", gotAuth)
	}
}

func TestUpdateRequestStatus_SendsStatusBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Request status updated to accepted"})
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t, "t1"))
	if err := c.UpdateRequestStatus(context.Background(), 3, RequestAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/requests/3/status" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotBody["status"] != "accepted" {
		t.Errorf("unexpected body %v", gotBody)
	}
}

func TestTokenExpiry(t *testing.T) {
	// Header/claims base64 for {"alg":"HS256","typ":"JWT"} and {"exp":4102444800}
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjQxMDI0NDQ4MDB9.x"
	exp, ok := TokenExpiry(token)
	if !ok {
		t.Fatal("expected expiry to decode")
	}
	if exp.Year() != 2100 {
		t.Errorf("expected year 2100, got %d", exp.Year())
	}

	if _, ok := TokenExpiry("not-a-token"); ok {
		t.Error("expected decode failure for garbage token")
	}
}
