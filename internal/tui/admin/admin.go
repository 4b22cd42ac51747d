// ABOUTME: Admin screen with user and request management tables
// ABOUTME: Emits delete and refresh messages for the root model to execute

package admin

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/tui/styles"
)

// Tab identifies the visible admin table
type Tab int

const (
	TabUsers Tab = iota
	TabRequests
)

var tabNames = []string{"Users", "Requests"}

// RefreshMsg asks for admin data to be reloaded
type RefreshMsg struct{}

// DeleteUserMsg asks for the selected user to be removed
type DeleteUserMsg struct{ UserID int }

// DeleteRequestMsg asks for the selected request to be removed
type DeleteRequestMsg struct{ RequestID int }

// BackMsg returns to the dashboard
type BackMsg struct{}

// Admin is the administration screen
type Admin struct {
	tab      Tab
	users    table.Model
	requests table.Model
	errText  string
}

// New creates an empty admin screen
func New() *Admin {
	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.Bold(true).Foreground(styles.Primary)
	tableStyles.Selected = tableStyles.Selected.Foreground(styles.Text).Background(styles.Primary)

	a := &Admin{}
	a.users = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Username", Width: 20},
			{Title: "Email", Width: 28},
			{Title: "Role", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(tableStyles),
	)
	a.requests = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Item", Width: 24},
			{Title: "Requester", Width: 16},
			{Title: "Owner", Width: 16},
			{Title: "Status", Width: 10},
		}),
		table.WithHeight(12),
		table.WithStyles(tableStyles),
	)
	return a
}

// SetUsers replaces the user table contents
func (a *Admin) SetUsers(users []api.AdminUser) {
	rows := make([]table.Row, len(users))
	for i, u := range users {
		rows[i] = table.Row{strconv.Itoa(u.ID), u.Username, u.Email, u.Role}
	}
	a.users.SetRows(rows)
}

// SetRequests replaces the request table contents
func (a *Admin) SetRequests(reqs []api.AdminRequest) {
	rows := make([]table.Row, len(reqs))
	for i, r := range reqs {
		rows[i] = table.Row{
			strconv.Itoa(r.ID), r.ItemTitle, r.RequesterUsername,
			r.OwnerUsername, r.Status,
		}
	}
	a.requests.SetRows(rows)
}

// SetError shows an error line under the tables
func (a *Admin) SetError(err error) {
	if err == nil {
		a.errText = ""
		return
	}
	a.errText = err.Error()
}

// SetSize adjusts table heights to the terminal
func (a *Admin) SetSize(width, height int) {
	tableHeight := height - 7
	if tableHeight < 4 {
		tableHeight = 4
	}
	a.users.SetHeight(tableHeight)
	a.requests.SetHeight(tableHeight)
}

// selectedID parses the ID column of the active table's selected row
func (a *Admin) selectedID() (int, bool) {
	var row table.Row
	if a.tab == TabUsers {
		row = a.users.SelectedRow()
	} else {
		row = a.requests.SelectedRow()
	}
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Init implements tea.Model
func (a *Admin) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *Admin) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, a.updateActiveTable(msg)
	}

	switch key.String() {
	case "tab", "shift+tab":
		if a.tab == TabUsers {
			a.tab = TabRequests
			a.users.Blur()
			a.requests.Focus()
		} else {
			a.tab = TabUsers
			a.requests.Blur()
			a.users.Focus()
		}
		return a, nil
	case "r":
		return a, func() tea.Msg { return RefreshMsg{} }
	case "esc":
		return a, func() tea.Msg { return BackMsg{} }
	case "x":
		id, ok := a.selectedID()
		if !ok {
			return a, nil
		}
		if a.tab == TabUsers {
			return a, func() tea.Msg { return DeleteUserMsg{UserID: id} }
		}
		return a, func() tea.Msg { return DeleteRequestMsg{RequestID: id} }
	}

	return a, a.updateActiveTable(msg)
}

// updateActiveTable forwards navigation keys to the visible table
func (a *Admin) updateActiveTable(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if a.tab == TabUsers {
		a.users, cmd = a.users.Update(msg)
	} else {
		a.requests, cmd = a.requests.Update(msg)
	}
	return cmd
}

// View implements tea.Model
func (a *Admin) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Administration") + "\n")

	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == a.tab {
			tabs = append(tabs, styles.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, styles.InactiveTab.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	if a.tab == TabUsers {
		b.WriteString(a.users.View())
	} else {
		b.WriteString(a.requests.View())
	}
	b.WriteString("\n")

	if a.errText != "" {
		b.WriteString(styles.ErrorText.Render("Error: "+a.errText) + "\n")
	}

	b.WriteString(styles.Help.Render("tab switch • x delete • r refresh • esc back • q quit"))
	return b.String()
}
