package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/styles"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	switch m.state {
	case stateConfirmQuit, stateConfirmDraft, stateSavingAs:
		return m.modal.Overlay(m.width, m.height)
	case stateShowingHelp:
		return m.helpView()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.panesView(),
		m.statusView(),
		m.footerView(),
	)
}

func (m *Model) panesView() string {
	editorBorder := styles.PaneBorderStyle
	if !m.previewFocused {
		editorBorder = styles.PaneBorderFocusedStyle
	}
	editorPane := editorBorder.Render(m.textarea.View())

	if !m.previewVisible() {
		return editorPane
	}

	if m.previewStale {
		m.preview.SetContent(m.renderer.Render(m.session.Text(), m.preview.Width))
		m.previewStale = false
	}

	previewBorder := styles.PaneBorderStyle
	if m.previewFocused {
		previewBorder = styles.PaneBorderFocusedStyle
	}
	previewPane := previewBorder.Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, editorPane, previewPane)
}

func (m *Model) statusView() string {
	ix := cursor.NewIndex(m.session.Text())
	pos := ix.PositionFor(m.session.Selection().Start)

	mode := "EDIT"
	if m.previewFocused {
		mode = "VIEW"
	}

	return renderStatusBar(StatusInfo{
		Filename: m.session.Filename(),
		Dirty:    m.session.Dirty(),
		Line:     pos.Line + 1,
		Col:      pos.Col + 1,
		Words:    cursor.WordCount(m.session.Text()),
		Mode:     mode,
	}, m.width)
}

func (m *Model) footerView() string {
	if m.errMsg != "" {
		return styles.ErrorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	if m.toast != "" {
		return styles.ToastStyle.Render(truncateLine(m.toast, m.width))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) helpView() string {
	var b strings.Builder
	b.WriteString(styles.PaneTitleStyle.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("press any key to close"))

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		b.String(),
	)
}

func truncateLine(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
