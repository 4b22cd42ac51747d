// ABOUTME: Dashboard screen with item and request tables
// ABOUTME: Emits action messages for the root model to run against the API

package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/store"
	"github.com/swaphub/swaphub-cli/internal/tui/styles"
	"github.com/swaphub/swaphub-cli/internal/tui/widgets"
)

// Tab identifies the visible dashboard table
type Tab int

const (
	TabItems Tab = iota
	TabSent
	TabReceived
)

var tabNames = []string{"Items", "Sent requests", "Received requests"}

// Action messages for the root model

// RefreshMsg asks for all dashboard data to be reloaded
type RefreshMsg struct{}

// NewItemMsg asks for the new-item form
type NewItemMsg struct{}

// SendRequestMsg asks for an exchange request for the selected item
type SendRequestMsg struct{ ItemID int }

// DeleteItemMsg asks for the selected item to be deleted
type DeleteItemMsg struct{ ItemID int }

// UpdateStatusMsg asks for a received request's status change
type UpdateStatusMsg struct {
	RequestID int
	Status    string
}

// AdminMsg asks for the admin screen
type AdminMsg struct{}

// LogoutMsg asks for a logout
type LogoutMsg struct{}

// Dashboard is the main authenticated screen
type Dashboard struct {
	user *store.User

	tab       Tab
	items     table.Model
	sent      table.Model
	received  table.Model
	itemData  []api.Item
	sentData  []api.SentRequest
	recvData  []api.ReceivedRequest
	notice    string
	errText   string
	width     int
	height    int
}

// New creates the dashboard for the given user
func New(user *store.User) *Dashboard {
	d := &Dashboard{user: user}

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.Bold(true).Foreground(styles.Primary)
	tableStyles.Selected = tableStyles.Selected.Foreground(styles.Text).Background(styles.Primary)

	d.items = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Title", Width: 28},
			{Title: "Category", Width: 14},
			{Title: "Location", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Owner", Width: 7},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(tableStyles),
	)
	d.sent = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Item", Width: 28},
			{Title: "Status", Width: 10},
			{Title: "Created", Width: 20},
		}),
		table.WithHeight(12),
		table.WithStyles(tableStyles),
	)
	d.received = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Item", Width: 28},
			{Title: "From", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Created", Width: 20},
		}),
		table.WithHeight(12),
		table.WithStyles(tableStyles),
	)
	return d
}

// SetNotice shows a one-line banner (access denied, action results)
func (d *Dashboard) SetNotice(notice string) {
	d.notice = notice
}

// SetError shows an error line under the tables
func (d *Dashboard) SetError(err error) {
	if err == nil {
		d.errText = ""
		return
	}
	d.errText = err.Error()
}

// SetItems replaces the item table contents
func (d *Dashboard) SetItems(items []api.Item) {
	d.itemData = items
	rows := make([]table.Row, len(items))
	for i, item := range items {
		rows[i] = table.Row{
			strconv.Itoa(item.ID), item.Title, item.Category,
			item.Location, item.Status, strconv.Itoa(item.UserID),
		}
	}
	d.items.SetRows(rows)
}

// SetSent replaces the sent-requests table contents
func (d *Dashboard) SetSent(reqs []api.SentRequest) {
	d.sentData = reqs
	rows := make([]table.Row, len(reqs))
	for i, r := range reqs {
		rows[i] = table.Row{strconv.Itoa(r.ID), r.ItemTitle, r.Status, r.CreatedAt}
	}
	d.sent.SetRows(rows)
}

// SetReceived replaces the received-requests table contents
func (d *Dashboard) SetReceived(reqs []api.ReceivedRequest) {
	d.recvData = reqs
	rows := make([]table.Row, len(reqs))
	for i, r := range reqs {
		rows[i] = table.Row{strconv.Itoa(r.ID), r.ItemTitle, r.RequesterUsername, r.Status, r.CreatedAt}
	}
	d.received.SetRows(rows)
}

// SetSize adjusts table heights to the terminal
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
	tableHeight := height - 8
	if tableHeight < 4 {
		tableHeight = 4
	}
	d.items.SetHeight(tableHeight)
	d.sent.SetHeight(tableHeight)
	d.received.SetHeight(tableHeight)
}

// selectedID parses the ID column of the active table's selected row
func (d *Dashboard) selectedID() (int, bool) {
	var row table.Row
	switch d.tab {
	case TabItems:
		row = d.items.SelectedRow()
	case TabSent:
		row = d.sent.SelectedRow()
	case TabReceived:
		row = d.received.SelectedRow()
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
func (d *Dashboard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, d.updateActiveTable(msg)
	}

	switch key.String() {
	case "tab":
		d.setTab((d.tab + 1) % 3)
		return d, nil
	case "shift+tab":
		d.setTab((d.tab + 2) % 3)
		return d, nil
	case "r":
		return d, func() tea.Msg { return RefreshMsg{} }
	case "n":
		return d, func() tea.Msg { return NewItemMsg{} }
	case "A":
		return d, func() tea.Msg { return AdminMsg{} }
	case "l":
		return d, func() tea.Msg { return LogoutMsg{} }
	case "s":
		if d.tab == TabItems {
			if id, ok := d.selectedID(); ok {
				return d, func() tea.Msg { return SendRequestMsg{ItemID: id} }
			}
		}
		return d, nil
	case "d":
		if d.tab == TabItems {
			if id, ok := d.selectedID(); ok {
				return d, func() tea.Msg { return DeleteItemMsg{ItemID: id} }
			}
		}
		return d, nil
	case "a", "j", "c":
		if d.tab != TabReceived {
			return d, nil
		}
		id, ok := d.selectedID()
		if !ok {
			return d, nil
		}
		status := map[string]string{
			"a": api.RequestAccepted,
			"j": api.RequestRejected,
			"c": api.RequestCancelled,
		}[key.String()]
		return d, func() tea.Msg { return UpdateStatusMsg{RequestID: id, Status: status} }
	}

	return d, d.updateActiveTable(msg)
}

// setTab moves focus to the chosen table
func (d *Dashboard) setTab(tab Tab) {
	d.tab = tab
	d.items.Blur()
	d.sent.Blur()
	d.received.Blur()
	switch tab {
	case TabItems:
		d.items.Focus()
	case TabSent:
		d.sent.Focus()
	case TabReceived:
		d.received.Focus()
	}
}

// updateActiveTable forwards navigation keys to the visible table
func (d *Dashboard) updateActiveTable(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.tab {
	case TabItems:
		d.items, cmd = d.items.Update(msg)
	case TabSent:
		d.sent, cmd = d.sent.Update(msg)
	case TabReceived:
		d.received, cmd = d.received.Update(msg)
	}
	return cmd
}

// View implements tea.Model
func (d *Dashboard) View() string {
	var b strings.Builder

	header := styles.Title.Render("swaphub marketplace")
	if d.user != nil {
		header += "  " + widgets.RoleBadge(d.user.Role) + " " + styles.Subtitle.Render(d.user.Username)
	}
	b.WriteString(header + "\n")

	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == d.tab {
			tabs = append(tabs, styles.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, styles.InactiveTab.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")

	if d.notice != "" {
		b.WriteString(styles.Notice.Render(d.notice) + "\n")
	}

	switch d.tab {
	case TabItems:
		b.WriteString(d.items.View())
	case TabSent:
		b.WriteString(d.sent.View())
	case TabReceived:
		b.WriteString(d.received.View())
	}
	b.WriteString("\n")

	if d.errText != "" {
		b.WriteString(styles.ErrorText.Render("Error: "+d.errText) + "\n")
	}

	help := "tab switch • r refresh • n new item • s request • d delete • l logout • q quit"
	if d.tab == TabReceived {
		help = "tab switch • a accept • j reject • c cancel • r refresh • l logout • q quit"
	}
	if d.user != nil && d.user.IsAdmin() {
		help += " • A admin"
	}
	b.WriteString(styles.Help.Render(help))
	return b.String()
}

// Summary returns a one-line count string for tests and the header
func (d *Dashboard) Summary() string {
	return fmt.Sprintf("%d items, %d sent, %d received",
		len(d.itemData), len(d.sentData), len(d.recvData))
}
