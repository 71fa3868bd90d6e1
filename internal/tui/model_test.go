package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/editor"
	"github.com/colonyops/quill/internal/data/drafts"
	"github.com/colonyops/quill/pkg/tuitest"
)

type recordingStorage struct {
	saved []string
}

func (r *recordingStorage) LoadText(context.Context) (string, error) { return "", nil }

func (r *recordingStorage) SaveText(_ context.Context, text string) error {
	r.saved = append(r.saved, text)
	return nil
}

func newTestModel(t *testing.T, text, filename string) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.TUI.Theme = config.ThemeDark

	m := New(Options{
		Config:   &cfg,
		Filename: filename,
		Text:     text,
	})
	send(m, tuitest.WindowSize(100, 30))
	return m
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		mm, _ := m.Update(msg)
		if mm != m {
			panic("model identity changed")
		}
	}
}

func typeString(m *Model, s string) {
	send(m, tuitest.TypeString(s)...)
}

func TestTypingUpdatesSession(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "hello")

	assert.Equal(t, "hello", m.Session().Text())
	assert.True(t, m.Session().Dirty())
}

func TestEnterContinuesList(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "1. First item")
	send(m, tuitest.KeyEnter())

	assert.Equal(t, "1. First item\n2. ", m.Session().Text())
	assert.Equal(t, 17, m.Session().Selection().Start)
}

func TestEnterOnEmptyItemExitsList(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "1. one")
	send(m, tuitest.KeyEnter(), tuitest.KeyEnter())

	assert.Equal(t, "1. one\n", m.Session().Text())
}

func TestTabIndentsListLine(t *testing.T) {
	m := newTestModel(t, "1. A\n2. B\n3. C\n", "")

	// SetValue leaves the cursor on the trailing empty line; move up to
	// the second item.
	send(m, tuitest.Key(tea.KeyUp), tuitest.Key(tea.KeyUp))
	send(m, tuitest.KeyTab())

	assert.Equal(t, "1. A\n  1. B\n2. C\n", m.Session().Text())
}

func TestShiftTabOutdentsListLine(t *testing.T) {
	m := newTestModel(t, "1. A\n  1. B\n", "")

	send(m, tuitest.Key(tea.KeyUp))
	send(m, tuitest.KeyShiftTab())

	assert.Equal(t, "1. A\n2. B\n", m.Session().Text())
}

func TestSnapshotTickThenUndo(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "draft one")
	send(m, snapshotTickMsg{seq: m.editSeq})
	typeString(m, " and more")
	send(m, snapshotTickMsg{seq: m.editSeq})

	send(m, tuitest.Key(tea.KeyCtrlZ))
	assert.Equal(t, "draft one", m.Session().Text())

	send(m, tuitest.Key(tea.KeyCtrlY))
	assert.Equal(t, "draft one and more", m.Session().Text())
}

func TestStaleTickIgnored(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "a")
	stale := m.editSeq
	typeString(m, "b")
	send(m, snapshotTickMsg{seq: stale})

	// Only the baseline snapshot exists; the stale tick recorded nothing.
	assert.Equal(t, 1, m.Session().History().Depth())
}

func TestQuitWithUnsavedChangesConfirms(t *testing.T) {
	m := newTestModel(t, "", "")

	typeString(m, "unsaved")
	send(m, tuitest.Key(tea.KeyCtrlQ))

	assert.Equal(t, stateConfirmQuit, m.state)
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "unsaved changes")

	// Cancel returns to the editor with the text intact.
	send(m, tuitest.Key(tea.KeyEsc))
	assert.Equal(t, stateEditing, m.state)
	assert.Equal(t, "unsaved", m.Session().Text())
}

func TestQuitCleanExitsImmediately(t *testing.T) {
	m := newTestModel(t, "", "")

	send(m, tuitest.Key(tea.KeyCtrlQ))
	assert.True(t, m.Quitting())
}

func TestSaveWithFilename(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &recordingStorage{}

	m := New(Options{
		Config:   &cfg,
		Storage:  store,
		Filename: "notes.md",
		Text:     "# Notes\n",
	})
	send(m, tuitest.WindowSize(100, 30))

	typeString(m, "x")
	send(m, tuitest.Key(tea.KeyCtrlS))

	require.Len(t, store.saved, 1)
	assert.False(t, m.Session().Dirty())
	assert.Contains(t, tuitest.StripANSI(m.View()), "Saved notes.md")
}

func TestSaveAsFlow(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &recordingStorage{}

	m := New(Options{
		Config:      &cfg,
		OpenStorage: func(string) editor.Storage { return store },
	})
	send(m, tuitest.WindowSize(100, 30))

	typeString(m, "scratch")
	send(m, tuitest.Key(tea.KeyCtrlS))
	require.Equal(t, stateSavingAs, m.state)

	typeString(m, "new.md")
	send(m, tuitest.KeyEnter())

	assert.Equal(t, stateEditing, m.state)
	assert.Equal(t, "new.md", m.Session().Filename())
	require.Len(t, store.saved, 1)
	assert.Equal(t, "scratch", store.saved[0])
}

func TestDraftRecovery(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	ds, err := drafts.Open(cfg.DataDir)
	require.NoError(t, err)
	defer ds.Close()
	require.NoError(t, ds.Put("a.md", "# recovered content\n"))

	m := New(Options{
		Config:   &cfg,
		Drafts:   ds,
		Filename: "a.md",
		Text:     "# stale file content\n",
	})
	send(m, tuitest.WindowSize(100, 30))
	require.Equal(t, stateConfirmDraft, m.state)

	send(m, tuitest.KeyEnter())
	assert.Equal(t, stateEditing, m.state)
	assert.Equal(t, "# recovered content\n", m.Session().Text())
}

func TestDraftRecoveryDeclined(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	ds, err := drafts.Open(cfg.DataDir)
	require.NoError(t, err)
	defer ds.Close()
	require.NoError(t, ds.Put("a.md", "draft"))

	m := New(Options{
		Config:   &cfg,
		Drafts:   ds,
		Filename: "a.md",
		Text:     "file",
	})
	require.Equal(t, stateConfirmDraft, m.state)

	send(m, tuitest.Key(tea.KeyEsc))
	assert.Equal(t, "file", m.Session().Text())
}

func TestAutosaveTickWritesDraft(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	ds, err := drafts.Open(cfg.DataDir)
	require.NoError(t, err)
	defer ds.Close()

	m := New(Options{
		Config:   &cfg,
		Drafts:   ds,
		Filename: "wip.md",
	})
	send(m, tuitest.WindowSize(100, 30))

	typeString(m, "work in progress")
	send(m, autosaveTickMsg{seq: m.editSeq})

	d, err := ds.Get("wip.md")
	require.NoError(t, err)
	assert.Equal(t, "work in progress", d.Text)
}

func TestStatusBarShowsPosition(t *testing.T) {
	m := newTestModel(t, "", "")
	typeString(m, "hello world")

	status := tuitest.StripANSI(m.statusView())
	assert.Contains(t, status, "[untitled]")
	assert.Contains(t, status, "2 words")
	assert.Contains(t, status, "Ln 1, Col 12")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, "", "")

	send(m, tuitest.Key(tea.KeyCtrlG))
	assert.Equal(t, stateShowingHelp, m.state)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Keybindings")

	send(m, tuitest.KeyPress('q'))
	assert.Equal(t, stateEditing, m.state)
}

func TestPreviewToggleAndView(t *testing.T) {
	m := newTestModel(t, "# Title\n\nbody text\n", "")

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "body text")

	send(m, tuitest.Key(tea.KeyCtrlP))
	assert.False(t, m.showPreview)

	if !strings.Contains(tuitest.StripANSI(m.View()), "body") {
		t.Fatal("editor pane should still show the document")
	}
}

func TestRenderTargetMovesCursor(t *testing.T) {
	m := newTestModel(t, "alpha\nbravo\ncharlie\n", "")

	m.target.SetStructuralSelection(cursor.Position{Line: 1, Col: 3}, cursor.Position{Line: 1, Col: 3})

	start, end := m.target.GetStructuralSelection()
	assert.Equal(t, cursor.Position{Line: 1, Col: 3}, start)
	assert.Equal(t, start, end)
	// "alpha\n" is 6 bytes, so line 1 col 3 is offset 9.
	assert.Equal(t, 9, m.cursorOffset())
}

func TestRenderTargetClampsPastLastLine(t *testing.T) {
	m := newTestModel(t, "one\ntwo\n", "")

	m.target.SetStructuralSelection(cursor.Position{Line: 9, Col: 0}, cursor.Position{Line: 9, Col: 0})

	start, _ := m.target.GetStructuralSelection()
	assert.Equal(t, 2, start.Line)
}
