// ABOUTME: Tests for badge widgets
// ABOUTME: Verifies badge text content and status mapping

package widgets

import (
	"strings"
	"testing"

	"github.com/swaphub/swaphub-cli/internal/api"
)

func TestBadge_ContainsText(t *testing.T) {
	for _, level := range []StatusLevel{StatusOK, StatusWarning, StatusCritical, StatusInfo, StatusNeutral} {
		out := Badge("pending", level)
		if !strings.Contains(out, "pending") {
			t.Errorf("badge at level %d missing text: %q", level, out)
		}
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		status string
		want   StatusLevel
	}{
		{api.RequestPending, StatusWarning},
		{api.RequestAccepted, StatusOK},
		{api.RequestRejected, StatusCritical},
		{api.RequestCancelled, StatusNeutral},
		{"unknown", StatusNeutral},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.status); got != tt.want {
			t.Errorf("requestLevel(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestRoleBadge(t *testing.T) {
	if out := RoleBadge("admin"); !strings.Contains(out, "admin") {
		t.Errorf("missing role text: %q", out)
	}
	if out := RoleBadge("user"); !strings.Contains(out, "user") {
		t.Errorf("missing role text: %q", out)
	}
}
