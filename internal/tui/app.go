// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, session guarding, and API-backed commands

package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/session"
	"github.com/swaphub/swaphub-cli/internal/store"
	"github.com/swaphub/swaphub-cli/internal/tui/admin"
	"github.com/swaphub/swaphub-cli/internal/tui/dashboard"
	"github.com/swaphub/swaphub-cli/internal/tui/itemform"
	"github.com/swaphub/swaphub-cli/internal/tui/login"
	"github.com/swaphub/swaphub-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenDashboard
	ScreenItemForm
	ScreenAdmin
)

// sessionReadyMsg is sent when stored session hydration and verification finish
type sessionReadyMsg struct {
	state session.State
}

// loginResultMsg is sent when a login attempt completes
type loginResultMsg struct {
	result session.LoginResult
}

// loggedOutMsg is sent when a logout completes
type loggedOutMsg struct{}

// dashboardDataMsg carries the three dashboard collections
type dashboardDataMsg struct {
	items    []api.Item
	sent     []api.SentRequest
	received []api.ReceivedRequest
	err      error
}

// adminDataMsg carries the admin collections
type adminDataMsg struct {
	users    []api.AdminUser
	requests []api.AdminRequest
	err      error
}

// actionDoneMsg is sent when a mutating call completes
type actionDoneMsg struct {
	notice string
	err    error
}

// App is the root model for the TUI
type App struct {
	client  *api.Client
	session *session.Controller

	screen Screen
	width  int
	height int

	spinner   spinner.Model
	loginView *login.Login
	dashView  *dashboard.Dashboard
	formView  *itemform.ItemForm
	adminView *admin.Admin
}

// New creates a new TUI application
func New(apiClient *api.Client, sess *session.Controller) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &App{
		client:  apiClient,
		session: sess,
		screen:  ScreenLoading,
		spinner: sp,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.hydrateSession())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashView != nil {
			a.dashView.SetSize(msg.Width, msg.Height)
		}
		if a.adminView != nil {
			a.adminView.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "q" && (a.screen == ScreenDashboard || a.screen == ScreenAdmin) {
			return a, tea.Quit
		}
		return a.forwardToScreen(msg)

	case spinner.TickMsg:
		if a.screen == ScreenLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case sessionReadyMsg:
		return a.handleSessionReady(msg.state)

	case login.SubmitMsg:
		return a, a.attemptLogin(msg.Username, msg.Password)

	case login.QuitMsg:
		return a, tea.Quit

	case loginResultMsg:
		if !msg.result.OK {
			if a.loginView != nil {
				a.loginView.SetError(msg.result.Reason)
				return a, a.loginView.Init()
			}
			return a, nil
		}
		return a.showDashboard()

	case loggedOutMsg:
		return a.showLogin("")

	case dashboardDataMsg:
		if a.expiredToLogin() {
			return a, a.loginView.Init()
		}
		if a.dashView == nil {
			return a, nil
		}
		if msg.err != nil {
			a.dashView.SetError(msg.err)
			return a, nil
		}
		a.dashView.SetError(nil)
		a.dashView.SetItems(msg.items)
		a.dashView.SetSent(msg.sent)
		a.dashView.SetReceived(msg.received)
		return a, nil

	case adminDataMsg:
		if a.expiredToLogin() {
			return a, a.loginView.Init()
		}
		if a.adminView == nil {
			return a, nil
		}
		if msg.err != nil {
			a.adminView.SetError(msg.err)
			return a, nil
		}
		a.adminView.SetError(nil)
		a.adminView.SetUsers(msg.users)
		a.adminView.SetRequests(msg.requests)
		return a, nil

	case actionDoneMsg:
		return a.handleActionDone(msg)

	case dashboard.RefreshMsg:
		return a, a.loadDashboard()

	case dashboard.NewItemMsg:
		a.formView = itemform.New()
		a.screen = ScreenItemForm
		return a, a.formView.Init()

	case dashboard.SendRequestMsg:
		return a, a.sendRequest(msg.ItemID)

	case dashboard.DeleteItemMsg:
		return a, a.deleteItem(msg.ItemID)

	case dashboard.UpdateStatusMsg:
		return a, a.updateRequestStatus(msg.RequestID, msg.Status)

	case dashboard.AdminMsg:
		return a.showAdmin()

	case dashboard.LogoutMsg:
		return a, a.logout()

	case itemform.SubmitMsg:
		a.formView = nil
		a.screen = ScreenDashboard
		return a, a.createItem(msg.Input)

	case itemform.CancelledMsg:
		a.formView = nil
		a.screen = ScreenDashboard
		return a, nil

	case admin.RefreshMsg:
		return a, a.loadAdmin()

	case admin.DeleteUserMsg:
		return a, a.deleteUser(msg.UserID)

	case admin.DeleteRequestMsg:
		return a, a.deleteAdminRequest(msg.RequestID)

	case admin.BackMsg:
		a.adminView = nil
		a.screen = ScreenDashboard
		return a, a.loadDashboard()

	default:
		// huh forms need non-key messages for their internals
		if a.screen == ScreenLogin || a.screen == ScreenItemForm {
			return a.forwardToScreen(msg)
		}
	}

	return a, nil
}

// forwardToScreen routes a message to the active child model
func (a *App) forwardToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		if a.loginView == nil {
			return a, nil
		}
		model, cmd := a.loginView.Update(msg)
		a.loginView = model.(*login.Login)
		return a, cmd
	case ScreenDashboard:
		if a.dashView == nil {
			return a, nil
		}
		model, cmd := a.dashView.Update(msg)
		a.dashView = model.(*dashboard.Dashboard)
		return a, cmd
	case ScreenItemForm:
		if a.formView == nil {
			return a, nil
		}
		model, cmd := a.formView.Update(msg)
		a.formView = model.(*itemform.ItemForm)
		return a, cmd
	case ScreenAdmin:
		if a.adminView == nil {
			return a, nil
		}
		model, cmd := a.adminView.Update(msg)
		a.adminView = model.(*admin.Admin)
		return a, cmd
	}
	return a, nil
}

// handleSessionReady applies the guard verdict after hydration
func (a *App) handleSessionReady(state session.State) (tea.Model, tea.Cmd) {
	if a.session.Authorize(session.RequireAuth) == session.Allow {
		return a.showDashboard()
	}
	notice, _ := a.session.TakeExpiredNotice()
	return a.showLogin(notice)
}

// handleActionDone surfaces the action outcome on the active screen
func (a *App) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if a.expiredToLogin() {
		return a, a.loginView.Init()
	}
	switch a.screen {
	case ScreenAdmin:
		a.adminView.SetError(msg.err)
		if msg.err == nil {
			return a, a.loadAdmin()
		}
	case ScreenDashboard:
		a.dashView.SetError(msg.err)
		if msg.err == nil {
			a.dashView.SetNotice(msg.notice)
			return a, a.loadDashboard()
		}
	}
	return a, nil
}

// expiredToLogin switches to the login screen when the session was
// invalidated behind a command, and reports whether it did.
func (a *App) expiredToLogin() bool {
	if a.session.Snapshot().Authenticated {
		return false
	}
	if a.screen == ScreenLogin || a.screen == ScreenLoading {
		return false
	}
	notice, _ := a.session.TakeExpiredNotice()
	_, _ = a.showLogin(notice)
	return true
}

// showLogin replaces the current screen with the login form
func (a *App) showLogin(notice string) (tea.Model, tea.Cmd) {
	a.dashView = nil
	a.adminView = nil
	a.formView = nil
	a.loginView = login.New(notice)
	a.screen = ScreenLogin
	return a, a.loginView.Init()
}

// showDashboard builds the dashboard for the current user and loads data
func (a *App) showDashboard() (tea.Model, tea.Cmd) {
	state := a.session.Snapshot()
	a.loginView = nil
	a.dashView = dashboard.New(state.User)
	if a.width > 0 {
		a.dashView.SetSize(a.width, a.height)
	}
	a.screen = ScreenDashboard
	return a, a.loadDashboard()
}

// showAdmin enters the admin screen when the role guard allows it
func (a *App) showAdmin() (tea.Model, tea.Cmd) {
	switch a.session.Authorize(session.RequireRoles(store.RoleAdmin)) {
	case session.Allow:
	case session.RedirectLogin:
		notice, _ := a.session.TakeExpiredNotice()
		return a.showLogin(notice)
	default:
		if a.dashView != nil {
			a.dashView.SetNotice("You do not have permission to access the admin area.")
		}
		return a, nil
	}
	a.adminView = admin.New()
	if a.width > 0 {
		a.adminView.SetSize(a.width, a.height)
	}
	a.screen = ScreenAdmin
	return a, a.loadAdmin()
}

// Commands

func (a *App) hydrateSession() tea.Cmd {
	return func() tea.Msg {
		state := a.session.HydrateAndVerify(context.Background())
		return sessionReadyMsg{state: state}
	}
}

func (a *App) attemptLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		result := a.session.Login(context.Background(), username, password)
		return loginResultMsg{result: result}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.session.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a *App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		items, err := a.client.ListItems(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		sent, err := a.client.SentRequests(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		received, err := a.client.ReceivedRequests(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		return dashboardDataMsg{items: items, sent: sent, received: received}
	}
}

func (a *App) loadAdmin() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		users, err := a.client.AdminUsers(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		requests, err := a.client.AdminRequests(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		return adminDataMsg{users: users, requests: requests}
	}
}

func (a *App) createItem(input api.ItemInput) tea.Cmd {
	return func() tea.Msg {
		_, err := a.client.CreateItem(context.Background(), input)
		return actionDoneMsg{notice: "Item listed.", err: err}
	}
}

func (a *App) deleteItem(id int) tea.Cmd {
	return func() tea.Msg {
		err := a.client.DeleteItem(context.Background(), id)
		return actionDoneMsg{notice: "Item deleted.", err: err}
	}
}

func (a *App) sendRequest(itemID int) tea.Cmd {
	return func() tea.Msg {
		_, err := a.client.CreateRequest(context.Background(), itemID)
		return actionDoneMsg{notice: "Exchange request sent.", err: err}
	}
}

func (a *App) updateRequestStatus(id int, status string) tea.Cmd {
	return func() tea.Msg {
		err := a.client.UpdateRequestStatus(context.Background(), id, status)
		return actionDoneMsg{notice: "Request " + status + ".", err: err}
	}
}

func (a *App) deleteUser(id int) tea.Cmd {
	return func() tea.Msg {
		err := a.client.AdminDeleteUser(context.Background(), id)
		return actionDoneMsg{err: err}
	}
}

func (a *App) deleteAdminRequest(id int) tea.Cmd {
	return func() tea.Msg {
		err := a.client.AdminDeleteRequest(context.Background(), id)
		return actionDoneMsg{err: err}
	}
}

// Run starts the TUI
func Run(apiClient *api.Client, sess *session.Controller) error {
	p := tea.NewProgram(
		New(apiClient, sess),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// View implements tea.Model
func (a *App) View() string {
	switch a.screen {
	case ScreenLoading:
		return "\n  " + a.spinner.View() + " Restoring session...\n"
	case ScreenLogin:
		if a.loginView != nil {
			return a.loginView.View()
		}
	case ScreenDashboard:
		if a.dashView != nil {
			return a.dashView.View()
		}
	case ScreenItemForm:
		if a.formView != nil {
			return a.formView.View()
		}
	case ScreenAdmin:
		if a.adminView != nil {
			return a.adminView.View()
		}
	}
	return ""
}
