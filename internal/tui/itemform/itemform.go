// ABOUTME: New-item form as a bubbletea model wrapping a huh form
// ABOUTME: Emits SubmitMsg with the item fields or CancelledMsg on escape

package itemform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/swaphub/swaphub-cli/internal/api"
	"github.com/swaphub/swaphub-cli/internal/tui/styles"
)

// SubmitMsg is sent when the form completes
type SubmitMsg struct {
	Input api.ItemInput
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

// ItemForm collects the fields for a new listing
type ItemForm struct {
	form *huh.Form

	title       string
	description string
	category    string
	location    string
	imageURL    string
}

// New creates the new-item form
func New() *ItemForm {
	f := &ItemForm{}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(required),
			huh.NewInput().
				Title("Description").
				Value(&f.description).
				Validate(required),
			huh.NewInput().
				Title("Category").
				Placeholder("e.g. books, tools, furniture").
				Value(&f.category).
				Validate(required),
			huh.NewInput().
				Title("Location").
				Value(&f.location).
				Validate(required),
			huh.NewInput().
				Title("Image URL (optional)").
				Value(&f.imageURL),
		).Title("Offer an item"),
	).WithTheme(huh.ThemeBase())
	return f
}

// required rejects empty input
func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// Init implements tea.Model
func (f *ItemForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *ItemForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		input := api.ItemInput{
			Title:       f.title,
			Description: f.description,
			Category:    f.category,
			Location:    f.location,
			ImageURL:    f.imageURL,
		}
		return f, func() tea.Msg { return SubmitMsg{Input: input} }
	}

	return f, cmd
}

// View implements tea.Model
func (f *ItemForm) View() string {
	return f.form.View() + "\n" + styles.Help.Render("enter next • esc cancel")
}
