// Package editor coordinates the text-model engine: it owns the canonical
// document, triggers list renumbering on every mutation, schedules history
// snapshots and preview renders, and mediates all collaborator access.
//
// A Session replaces ambient editor state: every piece of mutable state
// lives on it and every core operation is a method, so tests can drive a
// session with manual schedulers and fake collaborators.
package editor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/history"
	"github.com/colonyops/quill/internal/core/listfmt"
	"github.com/colonyops/quill/internal/core/markdown"
)

// Options wires a session's collaborators. Nil fields get inert defaults so
// headless use (quill render, tests) needs no setup.
type Options struct {
	Storage  Storage
	Dialog   Dialog
	Logger   zerolog.Logger
	Schedule SchedulerSet

	// OnRender receives the sanitized HTML after each render pass.
	OnRender func(html string)
	// OnAutosave receives the document and display filename when the
	// autosave timer fires.
	OnAutosave func(text, filename string)
}

// SchedulerSet groups one scheduler per deferred concern.
type SchedulerSet struct {
	Snapshots Scheduler
	Renders   Scheduler
	Autosaves Scheduler
}

func (s *SchedulerSet) fill() {
	if s.Snapshots == nil {
		s.Snapshots = NewTimerScheduler()
	}
	if s.Renders == nil {
		s.Renders = NewTimerScheduler()
	}
	if s.Autosaves == nil {
		s.Autosaves = NewTimerScheduler()
	}
}

// Session is one editing session over one document.
type Session struct {
	cfg  *config.Config
	log  zerolog.Logger
	hist *history.Manager
	opts Options

	text     string
	sel      cursor.Span
	filename string
	dirty    bool
}

// NewSession creates an empty session.
func NewSession(cfg *config.Config, opts Options) *Session {
	opts.Schedule.fill()
	if opts.Dialog == nil {
		// Headless sessions get a dialog that waves everything
		// through; only a real dialog can decline.
		opts.Dialog = StaticDialog{Confirm: true, OK: true}
	}
	s := &Session{
		cfg:  cfg,
		log:  opts.Logger.With().Str("component", "editor").Logger(),
		hist: history.NewManager(cfg.History.Limit),
		opts: opts,
	}
	s.hist.Record(s.snapshot())
	return s
}

// Text returns the canonical document text.
func (s *Session) Text() string { return s.text }

// Selection returns the current flat-offset selection.
func (s *Session) Selection() cursor.Span { return s.sel }

// Dirty reports whether the document has unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// Filename returns the display filename, empty for a new document.
func (s *Session) Filename() string { return s.filename }

// SetFilename updates the display filename.
func (s *Session) SetFilename(name string) { s.filename = name }

// SetStorage rebinds the persistence collaborator, used when a scratch
// buffer gets a filename through save-as.
func (s *Session) SetStorage(st Storage) { s.opts.Storage = st }

// History exposes undo/redo availability for status display.
func (s *Session) History() *history.Manager { return s.hist }

func (s *Session) snapshot() history.Snapshot {
	return history.Snapshot{Text: s.text, CursorStart: s.sel.Start, CursorEnd: s.sel.End}
}

// Replace swaps in a whole new document (file load, new document, draft
// restore). Pending timers are cancelled first so a stale snapshot or
// render can never land on the new document.
func (s *Session) Replace(text, filename string) {
	s.cancelTimers()
	s.hist.Reset()

	s.text = listfmt.Normalize(text)
	s.sel = cursor.Span{}
	s.filename = filename
	s.dirty = false

	s.hist.Record(s.snapshot())
	s.renderNow()
	s.log.Debug().Str("filename", filename).Int("bytes", len(s.text)).Msg("document replaced")
}

// Close cancels all pending deferred work. The session must not be used
// afterwards.
func (s *Session) Close() {
	s.cancelTimers()
}

func (s *Session) cancelTimers() {
	s.opts.Schedule.Snapshots.Cancel()
	s.opts.Schedule.Renders.Cancel()
	s.opts.Schedule.Autosaves.Cancel()
}

// SetSelection records a cursor move. Cursor motion is not an edit: it
// neither dirties the document nor schedules snapshots.
func (s *Session) SetSelection(sel cursor.Span) {
	s.sel = sel.Clamp(len(s.text))
}

// ApplyEdit is the ordinary typing path: the surface hands over its new
// text and selection, the session renumbers ordered lists, and all deferred
// work is (re)scheduled with last-write-wins semantics.
func (s *Session) ApplyEdit(text string, sel cursor.Span) {
	s.text, s.sel = normalizeWithSelection(text, sel)
	s.dirty = true

	s.opts.Schedule.Snapshots.Schedule(s.cfg.SnapshotDebounce(), s.recordSnapshot)
	s.scheduleRender()
	s.scheduleAutosave()
}

// BreakLine handles the Enter key. Inside a list item it continues the list
// (or exits it when the item is empty); elsewhere it inserts a plain
// newline at the selection. Structural edits force a snapshot boundary
// first so one undo reverts the whole action.
func (s *Session) BreakLine() {
	s.ForceSnapshot()

	text, offset, handled := listfmt.ContinueOnEnter(s.withSelectionRemoved(), s.sel.Start)
	if !handled {
		text = text[:offset] + "\n" + text[offset:]
		offset++
	}
	s.finishStructuralEdit(text, cursor.Span{Start: offset, End: offset})
}

// Indent moves the selected list lines one level deeper and renumbers the
// whole document before returning, so sibling numbering is correct at the
// next paint.
func (s *Session) Indent() {
	s.shift(+1)
}

// Outdent is the inverse of Indent.
func (s *Session) Outdent() {
	s.shift(-1)
}

func (s *Session) shift(delta int) {
	s.ForceSnapshot()
	text, start, end := listfmt.Shift(s.text, s.sel.Start, s.sel.End, delta)
	s.finishStructuralEdit(text, cursor.Span{Start: start, End: end})
}

// ToggleTask flips the checkbox on the cursor's line.
func (s *Session) ToggleTask() {
	text, handled := listfmt.ToggleTask(s.text, s.sel.Start)
	if !handled {
		return
	}
	s.ForceSnapshot()
	s.finishStructuralEdit(text, s.sel)
}

// Paste inserts clipboard content at the selection as one undoable action.
func (s *Session) Paste(content string) {
	s.ForceSnapshot()
	base := s.withSelectionRemoved()
	text := base[:s.sel.Start] + content + base[s.sel.Start:]
	at := s.sel.Start + len(content)
	s.finishStructuralEdit(text, cursor.Span{Start: at, End: at})
}

// withSelectionRemoved deletes the selected range, returning the remaining
// text. A collapsed selection returns the text unchanged.
func (s *Session) withSelectionRemoved() string {
	if s.sel.Start == s.sel.End {
		return s.text
	}
	return s.text[:s.sel.Start] + s.text[s.sel.End:]
}

// finishStructuralEdit normalizes, commits, and renders synchronously;
// structural operations are never deferred past the current interaction.
func (s *Session) finishStructuralEdit(text string, sel cursor.Span) {
	s.text, s.sel = normalizeWithSelection(text, sel)
	s.dirty = true
	s.renderNow()
	s.scheduleAutosave()
}

// ForceSnapshot records the current state immediately and disarms the
// debounce timer. Formatting commands call this before executing so a
// single undo reverts exactly one discrete action.
func (s *Session) ForceSnapshot() {
	s.opts.Schedule.Snapshots.Cancel()
	s.hist.Record(s.snapshot())
}

func (s *Session) recordSnapshot() {
	s.hist.Record(s.snapshot())
}

// Undo restores the previous snapshot. Returns false when there is nothing
// to undo; that is a no-op, never an error.
func (s *Session) Undo() bool {
	s.opts.Schedule.Snapshots.Cancel()
	snap, ok := s.hist.Undo(s.snapshot())
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo is the mirror of Undo.
func (s *Session) Redo() bool {
	s.opts.Schedule.Snapshots.Cancel()
	snap, ok := s.hist.Redo(s.snapshot())
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

func (s *Session) restore(snap history.Snapshot) {
	s.text = snap.Text
	s.sel = cursor.Span{Start: snap.CursorStart, End: snap.CursorEnd}.Clamp(len(snap.Text))
	s.dirty = true
	s.renderNow()
	s.scheduleAutosave()
}

// Save persists through the storage collaborator. A failed save leaves the
// in-memory document untouched and dirty.
func (s *Session) Save(ctx context.Context) error {
	if s.opts.Storage == nil {
		return fmt.Errorf("no storage configured")
	}
	if err := s.opts.Storage.SaveText(ctx, s.text); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	s.dirty = false
	s.log.Debug().Str("filename", s.filename).Msg("document saved")
	return nil
}

// Load replaces the document from the storage collaborator. Unsaved
// changes are discarded only after the dialog collaborator confirms; a
// declined or cancelled prompt keeps the document and is not an error.
// On read failure the current document is kept unmodified.
func (s *Session) Load(ctx context.Context, filename string) error {
	if s.opts.Storage == nil {
		return fmt.Errorf("no storage configured")
	}
	if s.dirty {
		ok, err := s.opts.Dialog.AskConfirmation(ctx, "Discard unsaved changes?")
		if err != nil {
			return fmt.Errorf("confirm discard: %w", err)
		}
		if !ok {
			s.log.Debug().Str("filename", filename).Msg("load declined, keeping document")
			return nil
		}
	}
	text, err := s.opts.Storage.LoadText(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	s.Replace(text, filename)
	return nil
}

// RenderHTML runs the full tokenize/sanitize/render pipeline on the
// current document.
func (s *Session) RenderHTML() string {
	return markdown.Render(s.text)
}

func (s *Session) renderNow() {
	if s.opts.OnRender != nil {
		s.opts.OnRender(s.RenderHTML())
	}
}

func (s *Session) scheduleRender() {
	if s.opts.OnRender == nil {
		return
	}
	s.opts.Schedule.Renders.Schedule(s.cfg.RenderDebounce(), s.renderNow)
}

func (s *Session) scheduleAutosave() {
	if s.opts.OnAutosave == nil || !s.cfg.Autosave.On() {
		return
	}
	s.opts.Schedule.Autosaves.Schedule(s.cfg.AutosaveInterval(), func() {
		s.opts.OnAutosave(s.text, s.filename)
	})
}

// normalizeWithSelection renumbers ordered lists and maps the selection
// through the rewrite. Normalization only rewrites list-line prefixes and
// never changes the line count, so offsets move by each line's length
// delta.
func normalizeWithSelection(text string, sel cursor.Span) (string, cursor.Span) {
	sel = sel.Clamp(len(text))
	normalized := listfmt.Normalize(text)
	if normalized == text {
		return text, sel
	}

	oldIx := cursor.NewIndex(text)
	newIx := cursor.NewIndex(normalized)
	adjust := func(offset int) int {
		pos := oldIx.PositionFor(offset)
		delta := utf8.RuneCountInString(newIx.Line(pos.Line)) - utf8.RuneCountInString(oldIx.Line(pos.Line))
		col := pos.Col + delta
		if col < 0 {
			col = 0
		}
		return newIx.OffsetFor(cursor.Position{Line: pos.Line, Col: col})
	}
	return normalized, cursor.Span{Start: adjust(sel.Start), End: adjust(sel.End)}.Clamp(len(normalized))
}
