// Package tui implements the interactive split-pane markdown editor: a
// textarea editing pane, a live styled preview, a status bar, and modal
// dialogs for save-as, quit confirmation, and draft recovery.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/editor"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/data/drafts"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateEditing UIState = iota
	stateConfirmQuit
	stateConfirmDraft
	stateSavingAs
	stateShowingHelp
)

// Options configures the editor TUI.
type Options struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Storage  editor.Storage // persistence for ctrl+s, optional for scratch buffers
	Drafts   *drafts.Store  // autosave draft store, optional
	Filename string         // display filename, empty for a new document
	Text     string         // initial document content

	// OpenStorage builds storage for a filename chosen in the save-as
	// dialog. Without it a scratch buffer cannot be saved.
	OpenStorage func(filename string) editor.Storage

	// HidePreview starts with the preview pane collapsed.
	HidePreview bool
}

// Model is the main Bubble Tea model for the editor.
type Model struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *editor.Session
	drafts  *drafts.Store

	keys     KeyMap
	textarea textarea.Model
	target   editor.RenderTarget
	preview  viewport.Model
	renderer *PreviewRenderer
	help     help.Model

	// The session's deferred work runs on manual schedulers pumped by
	// tea.Tick messages, keeping all mutation on the update loop.
	snapshots *editor.ManualScheduler
	autosaves *editor.ManualScheduler

	state        UIState
	modal        Modal
	pendingDraft drafts.Draft
	openStorage  func(filename string) editor.Storage

	showPreview    bool
	previewFocused bool
	previewStale   bool
	width          int
	height         int
	editSeq        int
	toastSeq       int
	toast          string
	errMsg         string
	quitting       bool
}

// Tick messages carry the edit sequence they were scheduled for; a tick
// that arrives after a newer edit is stale and ignored.
type (
	snapshotTickMsg struct{ seq int }
	renderTickMsg   struct{ seq int }
	autosaveTickMsg struct{ seq int }
	toastExpireMsg  struct{ seq int }
)

// New creates the editor model and its session.
func New(opts Options) *Model {
	applyTheme(opts.Config.TUI.Theme)

	m := &Model{
		cfg:         opts.Config,
		log:         opts.Logger.With().Str("component", "tui").Logger(),
		drafts:      opts.Drafts,
		keys:        DefaultKeyMap(),
		renderer:    NewPreviewRenderer(),
		help:        help.New(),
		snapshots:   editor.NewManualScheduler(),
		autosaves:   editor.NewManualScheduler(),
		openStorage: opts.OpenStorage,
		showPreview: !opts.HidePreview,
	}

	m.session = editor.NewSession(opts.Config, editor.Options{
		Storage: opts.Storage,
		Logger:  opts.Logger,
		Schedule: editor.SchedulerSet{
			Snapshots: m.snapshots,
			// Preview renders are driven by renderTickMsg directly.
			Renders:   editor.NewManualScheduler(),
			Autosaves: m.autosaves,
		},
		OnAutosave: m.saveDraft,
	})
	m.session.Replace(opts.Text, opts.Filename)

	ta := textarea.New()
	ta.ShowLineNumbers = opts.Config.TUI.ShowLineNumbers
	ta.CharLimit = 0
	ta.SetValue(m.session.Text())
	ta.Focus()
	m.textarea = ta
	m.target = &textareaTarget{ta: &m.textarea}

	m.preview = viewport.New(0, 0)
	m.previewStale = true

	if d, ok := m.recoverableDraft(opts.Filename, m.session.Text()); ok {
		m.pendingDraft = d
		m.state = stateConfirmDraft
		m.modal = NewConfirmModal("Recover draft?", "An autosaved draft is newer than this file.")
	}

	return m
}

func applyTheme(name string) {
	if name == "" || name == config.ThemeAuto {
		name = styles.DefaultTheme
	}
	if p, ok := styles.GetPalette(name); ok {
		styles.SetTheme(p)
	}
}

// recoverableDraft returns a stored draft whose content differs from the
// loaded document.
func (m *Model) recoverableDraft(filename, current string) (drafts.Draft, bool) {
	if m.drafts == nil {
		return drafts.Draft{}, false
	}
	d, err := m.drafts.Get(filename)
	if errors.Is(err, drafts.ErrNotFound) {
		return drafts.Draft{}, false
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("read draft")
		return drafts.Draft{}, false
	}
	if d.Text == current {
		return drafts.Draft{}, false
	}
	return d, true
}

func (m *Model) saveDraft(text, filename string) {
	if m.drafts == nil {
		return
	}
	if err := m.drafts.Put(filename, text); err != nil {
		m.log.Warn().Err(err).Msg("autosave draft")
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Session exposes the underlying editing session.
func (m *Model) Session() *editor.Session {
	return m.session
}

// Quitting reports whether the model has accepted a quit.
func (m *Model) Quitting() bool {
	return m.quitting
}

// cursorOffset converts the render target's structural cursor to a flat
// byte offset.
func (m *Model) cursorOffset() int {
	start, _ := m.target.GetStructuralSelection()
	return cursor.NewIndex(m.textarea.Value()).OffsetFor(start)
}

// syncFromTextarea pushes the textarea's state into the session after a key
// was handled by the textarea, then pulls the normalized result back when
// list renumbering rewrote the text.
func (m *Model) syncFromTextarea() bool {
	text := m.textarea.Value()
	off := m.cursorOffset()
	sel := cursor.Span{Start: off, End: off}

	if text == m.session.Text() {
		m.session.SetSelection(sel)
		return false
	}

	m.editSeq++
	m.session.ApplyEdit(text, sel)
	if m.session.Text() != text {
		m.syncToTextarea()
	}
	return true
}

// syncToTextarea replaces the textarea content and cursor from the session.
func (m *Model) syncToTextarea() {
	text := m.session.Text()
	m.textarea.SetValue(text)
	pos := cursor.NewIndex(text).PositionFor(m.session.Selection().Start)
	m.target.SetStructuralSelection(pos, pos)
}

// afterEdit schedules the deferred work that follows a document mutation.
func (m *Model) afterEdit() tea.Cmd {
	seq := m.editSeq
	return tea.Batch(
		tea.Tick(m.cfg.SnapshotDebounce(), func(time.Time) tea.Msg { return snapshotTickMsg{seq: seq} }),
		tea.Tick(m.cfg.RenderDebounce(), func(time.Time) tea.Msg { return renderTickMsg{seq: seq} }),
		tea.Tick(m.cfg.AutosaveInterval(), func(time.Time) tea.Msg { return autosaveTickMsg{seq: seq} }),
	)
}

func (m *Model) showToast(msg string) tea.Cmd {
	m.toast = msg
	m.errMsg = ""
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpireMsg{seq: seq} })
}
