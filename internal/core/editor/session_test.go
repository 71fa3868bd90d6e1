package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/cursor"
)

type sessionFixture struct {
	session   *Session
	snapshots *ManualScheduler
	renders   *ManualScheduler
	autosaves *ManualScheduler
	rendered  []string
	drafts    []string
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	f := &sessionFixture{
		snapshots: NewManualScheduler(),
		renders:   NewManualScheduler(),
		autosaves: NewManualScheduler(),
	}
	f.session = NewSession(&cfg, Options{
		Schedule: SchedulerSet{
			Snapshots: f.snapshots,
			Renders:   f.renders,
			Autosaves: f.autosaves,
		},
		OnRender:   func(html string) { f.rendered = append(f.rendered, html) },
		OnAutosave: func(text, _ string) { f.drafts = append(f.drafts, text) },
	})
	return f
}

func caret(n int) cursor.Span { return cursor.Span{Start: n, End: n} }

func TestApplyEditNormalizesLists(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. a\n7. b\n", caret(9))
	assert.Equal(t, "1. a\n2. b\n", f.session.Text())
	assert.True(t, f.session.Dirty())
}

func TestApplyEditDebouncesSnapshots(t *testing.T) {
	f := newFixture(t)

	// Rapid typing: each edit re-arms the timer instead of stacking
	// snapshots.
	f.session.ApplyEdit("h", caret(1))
	f.session.ApplyEdit("he", caret(2))
	f.session.ApplyEdit("hello", caret(5))
	assert.Equal(t, 1, f.session.History().Depth(), "only the baseline snapshot exists before the pause")

	f.snapshots.Fire()
	assert.Equal(t, 2, f.session.History().Depth())
}

func TestUndoRevertsOneAction(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("hello", caret(5))
	f.snapshots.Fire()
	f.session.ApplyEdit("hello world", caret(11))
	f.snapshots.Fire()

	require.True(t, f.session.Undo())
	assert.Equal(t, "hello", f.session.Text())
	assert.Equal(t, caret(5), f.session.Selection())

	require.True(t, f.session.Redo())
	assert.Equal(t, "hello world", f.session.Text())
}

func TestUndoEmptyHistoryIsNoop(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.session.Undo())
	assert.False(t, f.session.Redo())
	assert.Equal(t, "", f.session.Text())
}

func TestUndoWithPendingDebounce(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("typed", caret(5))

	// The debounce never fired, so undo falls back to the baseline.
	require.True(t, f.session.Undo())
	assert.Equal(t, "", f.session.Text())

	_, armed := f.snapshots.Pending()
	assert.False(t, armed, "undo must disarm the pending snapshot")
}

func TestBreakLineContinuesList(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. First item", caret(13))
	f.session.BreakLine()

	assert.Equal(t, "1. First item\n2. ", f.session.Text())
	assert.Equal(t, caret(17), f.session.Selection())
}

func TestBreakLineOnEmptyItemExitsList(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. First item\n2. ", caret(17))
	f.session.BreakLine()

	assert.Equal(t, "1. First item\n", f.session.Text())
	assert.Equal(t, caret(14), f.session.Selection())
}

func TestBreakLinePlainText(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("plain", caret(5))
	f.session.BreakLine()
	assert.Equal(t, "plain\n", f.session.Text())
	assert.Equal(t, caret(6), f.session.Selection())
}

func TestBreakLineIsOneUndoStep(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. item", caret(7))
	f.session.BreakLine()

	require.True(t, f.session.Undo())
	assert.Equal(t, "1. item", f.session.Text())
}

func TestIndentRenumbersImmediately(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. A\n2. B\n3. C\n", caret(8)) // cursor on B
	f.session.Indent()

	assert.Equal(t, "1. A\n  1. B\n2. C\n", f.session.Text())
}

func TestOutdentRenumbersImmediately(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("1. A\n  1. B\n", caret(10))
	f.session.Outdent()

	assert.Equal(t, "1. A\n2. B\n", f.session.Text())
}

func TestRenderDebounceLastWriteWins(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("# one", caret(5))
	f.session.ApplyEdit("# two", caret(5))

	f.renders.Fire()
	require.Len(t, f.rendered, 1)
	assert.Contains(t, f.rendered[0], "<h1>two</h1>")
}

func TestPasteIsOneUndoStep(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("ab", caret(2))
	f.snapshots.Fire()

	f.session.Paste("XYZ")
	assert.Equal(t, "abXYZ", f.session.Text())
	assert.Equal(t, caret(5), f.session.Selection())

	require.True(t, f.session.Undo())
	assert.Equal(t, "ab", f.session.Text())
}

func TestPasteReplacesSelection(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("hello world", caret(11))
	f.session.SetSelection(cursor.Span{Start: 6, End: 11})

	f.session.Paste("there")
	assert.Equal(t, "hello there", f.session.Text())
}

func TestToggleTask(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("- [ ] task", caret(3))
	f.session.ToggleTask()
	assert.Equal(t, "- [x] task", f.session.Text())

	require.True(t, f.session.Undo())
	assert.Equal(t, "- [ ] task", f.session.Text())
}

func TestReplaceCancelsPendingWork(t *testing.T) {
	f := newFixture(t)
	f.session.ApplyEdit("old content", caret(11))

	f.session.Replace("# fresh\n", "fresh.md")

	_, snapArmed := f.snapshots.Pending()
	_, autoArmed := f.autosaves.Pending()
	assert.False(t, snapArmed, "stale snapshot must not land on the new document")
	assert.False(t, autoArmed)
	assert.False(t, f.session.Dirty())
	assert.Equal(t, "fresh.md", f.session.Filename())
	assert.False(t, f.session.History().CanUndo() && f.session.Undo(), "history resets on replace")
}

func TestAutosaveFires(t *testing.T) {
	f := newFixture(t)
	f.session.SetFilename("draft.md")
	f.session.ApplyEdit("wip", caret(3))

	f.autosaves.Fire()
	require.Len(t, f.drafts, 1)
	assert.Equal(t, "wip", f.drafts[0])
}

func TestAutosaveDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	off := false
	cfg.Autosave.Enabled = &off

	auto := NewManualScheduler()
	var fired int
	s := NewSession(&cfg, Options{
		Schedule:   SchedulerSet{Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: auto},
		OnAutosave: func(string, string) { fired++ },
	})
	s.ApplyEdit("x", caret(1))

	_, armed := auto.Pending()
	assert.False(t, armed)
	assert.Zero(t, fired)
}

type memStorage struct {
	text    string
	loadErr error
	saveErr error
	saves   int
}

func (m *memStorage) LoadText(context.Context) (string, error) {
	return m.text, m.loadErr
}

func (m *memStorage) SaveText(_ context.Context, text string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.text = text
	m.saves++
	return nil
}

func TestSaveClearsDirty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{}
	s := NewSession(&cfg, Options{Storage: store, Schedule: SchedulerSet{
		Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
	}})

	s.ApplyEdit("content", caret(7))
	require.NoError(t, s.Save(context.Background()))
	assert.False(t, s.Dirty())
	assert.Equal(t, "content", store.text)
}

func TestFailedSaveKeepsDocument(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{saveErr: fmt.Errorf("disk full")}
	s := NewSession(&cfg, Options{Storage: store, Schedule: SchedulerSet{
		Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
	}})

	s.ApplyEdit("precious", caret(8))
	err := s.Save(context.Background())
	assert.Error(t, err)
	assert.True(t, s.Dirty())
	assert.Equal(t, "precious", s.Text())
}

func TestFailedLoadKeepsDocument(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{loadErr: fmt.Errorf("missing")}
	s := NewSession(&cfg, Options{Storage: store, Schedule: SchedulerSet{
		Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
	}})

	s.ApplyEdit("kept", caret(4))
	err := s.Load(context.Background(), "other.md")
	assert.Error(t, err)
	assert.Equal(t, "kept", s.Text())
}

func TestLoadOverDirtyDocumentDeclined(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{text: "replacement"}
	s := NewSession(&cfg, Options{
		Storage: store,
		Dialog:  StaticDialog{Confirm: false},
		Schedule: SchedulerSet{
			Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
		},
	})

	s.ApplyEdit("unsaved work", caret(12))
	err := s.Load(context.Background(), "other.md")

	require.NoError(t, err)
	assert.Equal(t, "unsaved work", s.Text())
	assert.True(t, s.Dirty())
}

func TestLoadOverDirtyDocumentConfirmed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{text: "replacement"}
	s := NewSession(&cfg, Options{
		Storage: store,
		Dialog:  StaticDialog{Confirm: true},
		Schedule: SchedulerSet{
			Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
		},
	})

	s.ApplyEdit("unsaved work", caret(12))
	err := s.Load(context.Background(), "other.md")

	require.NoError(t, err)
	assert.Equal(t, "replacement", s.Text())
	assert.Equal(t, "other.md", s.Filename())
	assert.False(t, s.Dirty())
}

func TestLoadCleanDocumentSkipsPrompt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	store := &memStorage{text: "fresh"}
	s := NewSession(&cfg, Options{
		Storage: store,
		Dialog:  StaticDialog{Confirm: false},
		Schedule: SchedulerSet{
			Snapshots: NewManualScheduler(), Renders: NewManualScheduler(), Autosaves: NewManualScheduler(),
		},
	})

	err := s.Load(context.Background(), "notes.md")

	require.NoError(t, err)
	assert.Equal(t, "fresh", s.Text())
}
