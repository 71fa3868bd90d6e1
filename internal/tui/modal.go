package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/quill/internal/core/styles"
)

// Modal is a centered dialog: either a confirm/cancel prompt or a single
// text input (save-as, open file).
type Modal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool

	hasInput bool
	input    textinput.Model
}

// NewConfirmModal creates a confirmation dialog with Confirm preselected.
func NewConfirmModal(title, message string) Modal {
	return Modal{
		title:           title,
		message:         message,
		visible:         true,
		confirmSelected: true,
	}
}

// NewInputModal creates a dialog with a single text field.
func NewInputModal(title, placeholder, value string) Modal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 256
	ti.Focus()

	return Modal{
		title:    title,
		visible:  true,
		hasInput: true,
		input:    ti,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// HasInput returns true for text-field dialogs.
func (m Modal) HasInput() bool {
	return m.hasInput
}

// Value returns the text field content.
func (m Modal) Value() string {
	return m.input.Value()
}

// Input exposes the text field for update routing.
func (m *Modal) Input() *textinput.Model {
	return &m.input
}

// Overlay renders the modal centered over the full screen area.
func (m Modal) Overlay(width, height int) string {
	if !m.visible {
		return ""
	}

	rows := []string{styles.ModalTitleStyle.Render(m.title), ""}

	if m.hasInput {
		rows = append(rows,
			m.input.View(),
			styles.ModalHelpStyle.Render("enter confirm  esc cancel"),
		)
	} else {
		var confirmBtn, cancelBtn string
		if m.confirmSelected {
			confirmBtn = styles.ModalButtonSelectedStyle.Render("Confirm")
			cancelBtn = styles.ModalButtonStyle.Render("Cancel")
		} else {
			confirmBtn = styles.ModalButtonStyle.Render("Confirm")
			cancelBtn = styles.ModalButtonSelectedStyle.Render("Cancel")
		}
		buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

		rows = append(rows,
			m.message,
			lipgloss.NewStyle().MarginTop(1).Render(buttons),
			styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	modal := styles.ModalStyle.Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}
