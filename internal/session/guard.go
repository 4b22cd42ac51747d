// ABOUTME: Typed route guard gating views on session state and role
// ABOUTME: Returns an explicit decision instead of duck-typed role checks

package session

// Decision is the guard's verdict for a navigation attempt
type Decision int

const (
	// Wait means hydration has not settled; show a neutral indicator
	Wait Decision = iota
	// Allow renders the guarded view
	Allow
	// RedirectLogin sends unauthenticated users to the login view
	RedirectLogin
	// RedirectForbidden sends authenticated users without the required
	// role back to the default view
	RedirectForbidden
)

// String returns a readable decision name
func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectForbidden:
		return "redirect-forbidden"
	default:
		return "unknown"
	}
}

// Requirement describes what a guarded view demands. An empty role set
// requires authentication only.
type Requirement struct {
	Roles []string
}

// RequireAuth guards views any authenticated user may see
var RequireAuth = Requirement{}

// RequireRoles guards views limited to the given roles
func RequireRoles(roles ...string) Requirement {
	return Requirement{Roles: roles}
}

// Authorize evaluates a requirement against current session state.
// Unknown roles fail closed.
func (c *Controller) Authorize(req Requirement) Decision {
	state := c.Snapshot()

	if state.Loading {
		return Wait
	}
	if !state.Authenticated || state.User == nil {
		return RedirectLogin
	}
	if len(req.Roles) == 0 {
		return Allow
	}
	for _, role := range req.Roles {
		if state.User.Role == role {
			return Allow
		}
	}
	return RedirectForbidden
}
