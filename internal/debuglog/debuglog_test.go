// ABOUTME: Tests for the file-backed debug logger
// ABOUTME: Verifies init, level filtering, and disabled mode

package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close()

	Info("session hydrated", "username", "alice")
	Error("login failed", os.ErrPermission)
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session hydrated") || !strings.Contains(out, "username=alice") {
		t.Errorf("missing info record in %q", out)
	}
	if !strings.Contains(out, "login failed") {
		t.Errorf("missing error record in %q", out)
	}
}

func TestInit_EmptyDirDisablesLogging(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Must not panic with no destination
	Info("dropped")
	Warn("dropped")
	Error("dropped", os.ErrClosed)
}

func TestError_NilIsIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	Error("should not appear", nil)
	Close()

	data, _ := os.ReadFile(filepath.Join(dir, "debug.log"))
	if strings.Contains(string(data), "should not appear") {
		t.Error("nil error must not be logged")
	}
}
