package tui

import (
	"github.com/charmbracelet/bubbles/textarea"

	"github.com/colonyops/quill/internal/core/cursor"
	"github.com/colonyops/quill/internal/core/editor"
)

// textareaTarget adapts the bubbles textarea to the editor's render-target
// contract. The textarea carries a single caret rather than a range, so
// both ends of the structural pair are the cursor position.
type textareaTarget struct {
	ta *textarea.Model
}

var _ editor.RenderTarget = (*textareaTarget)(nil)

func (t *textareaTarget) GetStructuralSelection() (start, end cursor.Position) {
	li := t.ta.LineInfo()
	pos := cursor.Position{Line: t.ta.Line(), Col: li.StartColumn + li.ColumnOffset}
	return pos, pos
}

// SetStructuralSelection moves the caret to start. The textarea exposes no
// absolute line jump, so walk to the top and step down; the no-progress
// check stops at the last line when start.Line overshoots.
func (t *textareaTarget) SetStructuralSelection(start, _ cursor.Position) {
	for t.ta.Line() > 0 {
		t.ta.CursorUp()
	}
	for t.ta.Line() < start.Line {
		prev := t.ta.Line()
		t.ta.CursorDown()
		if t.ta.Line() == prev {
			break
		}
	}
	t.ta.SetCursor(start.Col)
}
