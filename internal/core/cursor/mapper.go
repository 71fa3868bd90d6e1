// Package cursor translates between flat text offsets and the structural
// (line, column) positions the editable surface works in.
//
// Offsets are byte offsets into the document; columns are rune counts
// within a line, which is what terminal text widgets expose. Line breaks
// count as exactly one position, and every out-of-range input clamps to the
// nearest valid bound instead of failing.
package cursor

import (
	"strings"
	"unicode/utf8"
)

// Position is a structural location: a zero-based line and a zero-based
// rune column within that line.
type Position struct {
	Line int
	Col  int
}

// Span is a flat-offset selection. Start and End are byte offsets with
// Start <= End after clamping.
type Span struct {
	Start int
	End   int
}

// Clamp forces the span into [0, docLen] with Start <= End.
func (s Span) Clamp(docLen int) Span {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.End < 0 {
		s.End = 0
	}
	if s.Start > docLen {
		s.Start = docLen
	}
	if s.End > docLen {
		s.End = docLen
	}
	if s.End < s.Start {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Index is a prebuilt line table for one document revision. It is immutable;
// rebuild it after every text change.
type Index struct {
	text   string
	starts []int
}

// NewIndex builds the line table. An empty document still has one line.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, starts: starts}
}

// Len returns the document length in bytes.
func (ix *Index) Len() int { return len(ix.text) }

// LineCount returns the number of lines.
func (ix *Index) LineCount() int { return len(ix.starts) }

// Line returns the text of line i without its terminator, clamping i.
func (ix *Index) Line(i int) string {
	if i < 0 {
		i = 0
	}
	if i >= len(ix.starts) {
		i = len(ix.starts) - 1
	}
	start := ix.starts[i]
	end := ix.lineEnd(i)
	return ix.text[start:end]
}

// lineEnd is the byte offset just past line i's content, excluding the
// newline.
func (ix *Index) lineEnd(i int) int {
	if i+1 < len(ix.starts) {
		return ix.starts[i+1] - 1
	}
	return len(ix.text)
}

// PositionFor maps a flat byte offset to a structural position. Offsets
// beyond the document clamp to the final position; offsets inside a
// multi-byte rune snap to a rune boundary.
func (ix *Index) PositionFor(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}
	for offset > 0 && offset < len(ix.text) && !utf8.RuneStart(ix.text[offset]) {
		offset--
	}

	// Binary search for the line containing offset.
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo

	end := ix.lineEnd(line)
	if offset > end {
		// Offset sits on the newline itself; it belongs to this line's end.
		offset = end
	}
	col := utf8.RuneCountInString(ix.text[ix.starts[line]:offset])
	return Position{Line: line, Col: col}
}

// OffsetFor maps a structural position back to a flat byte offset, clamping
// the line into range and the column onto the line.
func (ix *Index) OffsetFor(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(ix.starts) {
		return len(ix.text)
	}

	start := ix.starts[pos.Line]
	lineText := ix.text[start:ix.lineEnd(pos.Line)]
	if pos.Col <= 0 {
		return start
	}

	col := 0
	for i := range lineText {
		if col == pos.Col {
			return start + i
		}
		col++
	}
	return start + len(lineText)
}

// SpanFor converts a structural position pair into a clamped flat selection.
func (ix *Index) SpanFor(start, end Position) Span {
	return Span{Start: ix.OffsetFor(start), End: ix.OffsetFor(end)}.Clamp(len(ix.text))
}

// Positions converts a flat selection into its structural position pair.
func (ix *Index) Positions(span Span) (Position, Position) {
	span = span.Clamp(len(ix.text))
	return ix.PositionFor(span.Start), ix.PositionFor(span.End)
}

// WordCount counts whitespace-separated words, for the status bar.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
