// ABOUTME: Login screen as a bubbletea model wrapping a huh form
// ABOUTME: Emits SubmitMsg with credentials; renders expiry and error notices

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/swaphub/swaphub-cli/internal/tui/styles"
)

// SubmitMsg is sent when the user submits the form
type SubmitMsg struct {
	Username string
	Password string
}

// QuitMsg is sent when the user backs out of the login screen
type QuitMsg struct{}

// Login is the login screen model
type Login struct {
	form     *huh.Form
	username string
	password string
	notice   string // session-expired or similar banner
	errText  string // last failed attempt's reason
	width    int
}

// New creates a login screen. notice is shown above the form, for the
// session-expired banner.
func New(notice string) *Login {
	l := &Login{notice: notice}
	l.form = l.newForm()
	return l
}

func (l *Login) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password),
		).Title("Log in to swaphub"),
	).WithTheme(huh.ThemeBase())
}

// SetError records a failed attempt's reason and resets the form for
// another try
func (l *Login) SetError(reason string) {
	l.errText = reason
	l.password = ""
	l.form = l.newForm()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return QuitMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		username, password := l.username, l.password
		// Rebuild so a rejected attempt can be retried
		l.form = l.newForm()
		return l, tea.Batch(l.form.Init(), func() tea.Msg {
			return SubmitMsg{Username: username, Password: password}
		})
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("swaphub") + "\n")
	if l.notice != "" {
		b.WriteString(styles.Notice.Render(l.notice) + "\n")
	}
	if l.errText != "" {
		b.WriteString(styles.ErrorText.Render(l.errText) + "\n")
	}
	b.WriteString(l.form.View())
	b.WriteString(styles.Help.Render("enter submit • esc quit"))
	return b.String()
}
