// ABOUTME: Status badge widgets for request states and user roles
// ABOUTME: Provides colored inline badges for table and detail views

package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/store"
)

// StatusLevel represents the visual severity of a badge
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	badgeOKBg      = lipgloss.Color("#10B981")
	badgeOKFg      = lipgloss.Color("#FFFFFF")
	badgeWarnBg    = lipgloss.Color("#F59E0B")
	badgeWarnFg    = lipgloss.Color("#000000")
	badgeCritBg    = lipgloss.Color("#EF4444")
	badgeCritFg    = lipgloss.Color("#FFFFFF")
	badgeInfoBg    = lipgloss.Color("#3B82F6")
	badgeInfoFg    = lipgloss.Color("#FFFFFF")
	badgeNeutralBg = lipgloss.Color("#6B7280")
	badgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	var bg, fg lipgloss.Color

	switch level {
	case StatusOK:
		bg, fg = badgeOKBg, badgeOKFg
	case StatusWarning:
		bg, fg = badgeWarnBg, badgeWarnFg
	case StatusCritical:
		bg, fg = badgeCritBg, badgeCritFg
	case StatusInfo:
		bg, fg = badgeInfoBg, badgeInfoFg
	default:
		bg, fg = badgeNeutralBg, badgeNeutralFg
	}

	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// RequestBadge renders a badge for an exchange request status
func RequestBadge(status string) string {
	return Badge(status, requestLevel(status))
}

// requestLevel maps request statuses to badge severity
func requestLevel(status string) StatusLevel {
	switch status {
	case api.RequestPending:
		return StatusWarning
	case api.RequestAccepted:
		return StatusOK
	case api.RequestRejected:
		return StatusCritical
	case api.RequestCancelled:
		return StatusNeutral
	default:
		return StatusNeutral
	}
}

// RoleBadge renders a badge for a user role
func RoleBadge(role string) string {
	if role == store.RoleAdmin {
		return Badge(role, StatusInfo)
	}
	return Badge(role, StatusNeutral)
}
