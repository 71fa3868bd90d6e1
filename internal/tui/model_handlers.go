package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/listfmt"
	"github.com/colonyops/quill/internal/data/drafts"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case snapshotTickMsg:
		if msg.seq == m.editSeq {
			m.snapshots.Fire()
		}
		return m, nil

	case renderTickMsg:
		if msg.seq == m.editSeq {
			m.previewStale = true
		}
		return m, nil

	case autosaveTickMsg:
		if msg.seq == m.editSeq {
			m.autosaves.Fire()
		}
		return m, nil

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateConfirmQuit:
			return m.handleConfirmQuitKey(msg)
		case stateConfirmDraft:
			return m.handleConfirmDraftKey(msg)
		case stateSavingAs:
			return m.handleSaveAsKey(msg)
		case stateShowingHelp:
			m.state = stateEditing
			return m, nil
		default:
			return m.handleEditingKey(msg)
		}
	}

	return m.updateFocusedPane(msg)
}

// --- Window ---

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layoutPanes()
	return m, nil
}

func (m *Model) layoutPanes() {
	// Two rows of chrome: status bar and help footer. Borders cost two
	// columns and two rows per pane.
	contentHeight := m.height - 2 - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	editorWidth := m.width - 2
	if m.previewVisible() {
		editorWidth = m.width/2 - 2
	}
	if editorWidth < 1 {
		editorWidth = 1
	}

	m.textarea.SetWidth(editorWidth)
	m.textarea.SetHeight(contentHeight)

	if m.previewVisible() {
		m.preview.Width = m.width - (editorWidth + 2) - 2
		m.preview.Height = contentHeight
		m.previewStale = true
	}
}

func (m *Model) previewVisible() bool {
	return m.showPreview && m.width >= 2*minPaneWidth
}

// --- Editing keys ---

func (m *Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		if m.session.Dirty() {
			m.state = stateConfirmQuit
			m.modal = NewConfirmModal("Quit without saving?", "The document has unsaved changes.")
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, keys.Save):
		return m.startSave()

	case key.Matches(msg, keys.Undo):
		if m.session.Undo() {
			m.editSeq++
			m.syncToTextarea()
			m.previewStale = true
		}
		return m, nil

	case key.Matches(msg, keys.Redo):
		if m.session.Redo() {
			m.editSeq++
			m.syncToTextarea()
			m.previewStale = true
		}
		return m, nil

	case key.Matches(msg, keys.TogglePreview):
		m.showPreview = !m.showPreview
		m.layoutPanes()
		return m, nil

	case key.Matches(msg, keys.FocusToggle):
		if m.previewVisible() {
			m.previewFocused = !m.previewFocused
			if m.previewFocused {
				m.textarea.Blur()
			} else {
				m.textarea.Focus()
			}
		}
		return m, nil

	case key.Matches(msg, keys.Help):
		m.state = stateShowingHelp
		return m, nil
	}

	if m.previewFocused {
		return m.updateFocusedPane(msg)
	}

	switch {
	case msg.Type == tea.KeyEnter:
		m.session.SetSelection(m.selectionAtCursor())
		m.editSeq++
		m.session.BreakLine()
		m.syncToTextarea()
		return m, m.afterEdit()

	case key.Matches(msg, keys.Indent) && m.onListLine():
		m.session.SetSelection(m.selectionAtCursor())
		m.editSeq++
		m.session.Indent()
		m.syncToTextarea()
		return m, m.afterEdit()

	case key.Matches(msg, keys.Outdent) && m.onListLine():
		m.session.SetSelection(m.selectionAtCursor())
		m.editSeq++
		m.session.Outdent()
		m.syncToTextarea()
		return m, m.afterEdit()

	case key.Matches(msg, keys.ToggleTask):
		m.session.SetSelection(m.selectionAtCursor())
		m.editSeq++
		m.session.ToggleTask()
		m.syncToTextarea()
		return m, m.afterEdit()
	}

	return m.updateFocusedPane(msg)
}

func (m *Model) selectionAtCursor() cursor.Span {
	off := m.cursorOffset()
	return cursor.Span{Start: off, End: off}
}

func (m *Model) onListLine() bool {
	return listfmt.IsListLine(m.textarea.Value(), m.cursorOffset())
}

// updateFocusedPane routes non-command messages to the focused component.
func (m *Model) updateFocusedPane(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.previewFocused {
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	m.textarea, cmd = m.textarea.Update(msg)
	if m.syncFromTextarea() {
		return m, tea.Batch(cmd, m.afterEdit())
	}
	return m, cmd
}

// --- Save ---

func (m *Model) startSave() (tea.Model, tea.Cmd) {
	if m.session.Filename() == "" {
		m.state = stateSavingAs
		m.modal = NewInputModal("Save as", "notes.md", "")
		return m, nil
	}
	return m.saveNow()
}

func (m *Model) saveNow() (tea.Model, tea.Cmd) {
	if err := m.session.Save(context.Background()); err != nil {
		m.log.Error().Err(err).Msg("save failed")
		m.errMsg = err.Error()
		return m, nil
	}
	m.discardDraft()
	return m, m.showToast("Saved " + m.session.Filename())
}

// discardDraft removes the autosave draft once the document is safely on
// disk.
func (m *Model) discardDraft() {
	if m.drafts == nil {
		return
	}
	if err := m.drafts.Delete(m.session.Filename()); err != nil {
		m.log.Debug().Err(err).Msg("discard draft")
	}
}

// --- Modal keys ---

func (m *Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.modal.ToggleSelection()
		return m, nil
	case "enter":
		if m.modal.ConfirmSelected() {
			return m.quit()
		}
		m.state = stateEditing
		return m, nil
	case "esc":
		m.state = stateEditing
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.modal.ToggleSelection()
		return m, nil
	case "enter":
		if m.modal.ConfirmSelected() {
			m.editSeq++
			m.session.Replace(m.pendingDraft.Text, m.pendingDraft.Filename)
			m.syncToTextarea()
			m.previewStale = true
		}
		m.pendingDraft = drafts.Draft{}
		m.state = stateEditing
		return m, nil
	case "esc":
		m.pendingDraft = drafts.Draft{}
		m.state = stateEditing
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.modal.Value()
		if name == "" {
			return m, nil
		}
		m.state = stateEditing
		m.session.SetFilename(name)
		if m.openStorage != nil {
			m.session.SetStorage(m.openStorage(name))
		}
		return m.saveNow()
	case "esc":
		m.state = stateEditing
		return m, nil
	}

	var cmd tea.Cmd
	*m.modal.Input(), cmd = m.modal.Input().Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.Close()
	return m, tea.Quit
}
