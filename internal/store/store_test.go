// ABOUTME: Tests for the session store
// ABOUTME: Uses temp directories to exercise save/load/clear round trips

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := New(t.TempDir())

	user := User{ID: 7, Username: "alice", Role: RoleUser}
	if err := s.Save("t1", user); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	token, got, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if token != "t1" {
		t.Errorf("expected token t1, got %q", token)
	}
	if got != user {
		t.Errorf("expected user %+v, got %+v", user, got)
	}
}

func TestLoad_Absent(t *testing.T) {
	s := New(t.TempDir())

	_, _, err := s.Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist for missing session, got %v", err)
	}
}

func TestLoad_Corrupted(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Load()
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("expected ErrCorrupted, got %v", err)
	}
}

func TestLoad_EmptyToken(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"token":"","user":{"username":"alice"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected absent session for empty token, got %v", err)
	}
}

func TestSetToken_PreservesUser(t *testing.T) {
	s := New(t.TempDir())

	user := User{ID: 7, Username: "alice", Role: RoleAdmin}
	if err := s.Save("t1", user); err != nil {
		t.Fatal(err)
	}
	if err := s.SetToken("t2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if token != "t2" {
		t.Errorf("expected token t2, got %q", token)
	}
	if got != user {
		t.Errorf("expected user preserved, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save("t1", User{ID: 1, Username: "alice", Role: RoleUser}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}
	if _, _, err := s.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected empty store after clear, got %v", err)
	}

	// Clearing an already-empty store is fine
	if err := s.Clear(); err != nil {
		t.Errorf("expected nil clearing empty store, got %v", err)
	}
}

func TestSessionFile_Permissions(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Save("t1", User{ID: 1, Username: "alice", Role: RoleUser}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions on session file, got %o", perm)
	}
}

func TestIsAdmin(t *testing.T) {
	if (User{Role: RoleUser}).IsAdmin() {
		t.Error("user role should not be admin")
	}
	if !(User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role should be admin")
	}
}
