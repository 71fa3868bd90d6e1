package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// TabWidth is the number of spaces one tab expands to when computing list
// nesting depth. The list normalizer uses the same constant; the two must
// never disagree.
const TabWidth = 2

// IndentPerLevel is the number of leading spaces that make up one list
// nesting level.
const IndentPerLevel = 2

var (
	headingPattern      = regexp.MustCompile(`^(#{1,6})([ \t]+)(.*)$`)
	fencePattern        = regexp.MustCompile("^(```+|~~~+)[ \t]*([A-Za-z0-9_+-]*)[ \t]*$")
	rulePattern         = regexp.MustCompile(`^ {0,3}(-{3,}|\*{3,}|_{3,})[ \t]*$`)
	quotePattern        = regexp.MustCompile(`^ {0,3}> ?`)
	orderedItemPattern  = regexp.MustCompile(`^([ \t]*)(\d+)([.)])([ \t]+)(.*)$`)
	bulletItemPattern   = regexp.MustCompile(`^([ \t]*)([-*+])([ \t]+)(.*)$`)
	taskPattern         = regexp.MustCompile(`^\[([ xX])\]([ \t]+)(.*)$`)
	tableDelimPattern   = regexp.MustCompile(`^\|?[ \t:|-]+\|?[ \t]*$`)
	footnoteDefPattern  = regexp.MustCompile(`^\[\^([^\]\s]+)\]:([ \t]*)(.*)$`)
	hardBreakSuffix     = regexp.MustCompile(`[ ]{2,}$`)
	tableDelimCellCheck = regexp.MustCompile(`^:?-+:?$`)
)

// line is one source line with its absolute start offset. text excludes the
// terminator, which is kept separately so spans stay exact.
type line struct {
	start int
	text  string
	eol   string
}

func splitLines(src string) []line {
	var out []line
	offset := 0
	for offset <= len(src) {
		idx := strings.IndexByte(src[offset:], '\n')
		if idx < 0 {
			if offset < len(src) {
				out = append(out, line{start: offset, text: src[offset:]})
			}
			break
		}
		text := src[offset : offset+idx]
		eol := "\n"
		if strings.HasSuffix(text, "\r") {
			text = text[:len(text)-1]
			eol = "\r\n"
		}
		out = append(out, line{start: offset, text: text, eol: eol})
		offset += idx + 1
	}
	return out
}

// leadingIndent returns the width of a line's leading whitespace with tabs
// expanded, plus the byte length of that whitespace.
func leadingIndent(s string) (width, bytes int) {
	for _, r := range s {
		switch r {
		case ' ':
			width++
			bytes++
		case '\t':
			width += TabWidth
			bytes++
		default:
			return width, bytes
		}
	}
	return width, bytes
}

// Parse tokenizes markdown source into a render tree. It never fails:
// constructs that match no pattern degrade to paragraph text.
func Parse(src string) *Token {
	p := &parser{src: src, lines: splitLines(src)}
	return p.parseDocument()
}

type parser struct {
	src   string
	lines []line
	pos   int
}

func (p *parser) peek(n int) (line, bool) {
	if p.pos+n >= len(p.lines) {
		return line{}, false
	}
	return p.lines[p.pos+n], true
}

func (p *parser) parseDocument() *Token {
	doc := &Token{Kind: KindDocument, End: len(p.src)}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		switch {
		case strings.TrimSpace(ln.text) == "":
			doc.AppendChild(newLeaf(KindBlank, ln.start, ln.text+ln.eol))
			p.pos++
		case headingPattern.MatchString(ln.text):
			doc.AppendChild(p.parseHeading())
		case fencePattern.MatchString(ln.text):
			tok, ok := p.parseFence()
			if ok {
				doc.AppendChild(tok)
			} else {
				doc.AppendChild(p.parseParagraph())
			}
		case rulePattern.MatchString(ln.text) && !p.looksLikeTableDelim():
			doc.AppendChild(newLeaf(KindHorizontalRule, ln.start, ln.text+ln.eol))
			p.pos++
		case quotePattern.MatchString(ln.text):
			doc.AppendChild(p.parseBlockquote())
		case footnoteDefPattern.MatchString(ln.text):
			doc.AppendChild(p.parseFootnoteDef())
		case isListItem(ln.text):
			doc.AppendChild(p.parseList(0))
		case p.startsTable():
			doc.AppendChild(p.parseTable())
		default:
			doc.AppendChild(p.parseParagraph())
		}
	}
	return doc
}

func (p *parser) parseHeading() *Token {
	ln := p.lines[p.pos]
	p.pos++
	m := headingPattern.FindStringSubmatch(ln.text)
	tok := &Token{Kind: KindHeading, Level: len(m[1]), Start: ln.start, End: ln.start}
	prefix := m[1] + m[2]
	tok.AppendChild(newLeaf(KindMarker, ln.start, prefix))
	body := m[3]
	for _, child := range parseInline(body, ln.start+len(prefix)) {
		tok.AppendChild(child)
	}
	if ln.eol != "" {
		tok.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
	}
	return tok
}

// parseFence consumes a fenced code block. When no closing fence exists the
// parser reports failure and the opening line degrades to paragraph text.
func (p *parser) parseFence() (*Token, bool) {
	open := p.lines[p.pos]
	m := fencePattern.FindStringSubmatch(open.text)
	fence := m[1][:3]

	closeIdx := -1
	for i := p.pos + 1; i < len(p.lines); i++ {
		trimmed := strings.TrimSpace(p.lines[i].text)
		if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, string(fence[0])) == "" {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil, false
	}

	tok := &Token{Kind: KindCodeBlock, Info: m[2], Start: open.start, End: open.start}
	tok.AppendChild(newLeaf(KindMarker, open.start, open.text+open.eol))

	bodyStart := open.start + len(open.text) + len(open.eol)
	closeLine := p.lines[closeIdx]
	if closeLine.start > bodyStart {
		tok.AppendChild(newLeaf(KindText, bodyStart, p.src[bodyStart:closeLine.start]))
	}
	tok.AppendChild(newLeaf(KindMarker, closeLine.start, closeLine.text+closeLine.eol))
	p.pos = closeIdx + 1
	return tok, true
}

func (p *parser) parseBlockquote() *Token {
	tok := &Token{Kind: KindBlockquote, Start: p.lines[p.pos].start, End: p.lines[p.pos].start}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		loc := quotePattern.FindStringIndex(ln.text)
		if loc == nil {
			break
		}
		tok.AppendChild(newLeaf(KindMarker, ln.start, ln.text[:loc[1]]))
		rest := ln.text[loc[1]:]
		for _, child := range parseInline(rest, ln.start+loc[1]) {
			tok.AppendChild(child)
		}
		if ln.eol != "" {
			tok.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
		}
		p.pos++
	}
	return tok
}

func (p *parser) parseFootnoteDef() *Token {
	ln := p.lines[p.pos]
	p.pos++
	m := footnoteDefPattern.FindStringSubmatch(ln.text)
	tok := &Token{Kind: KindFootnoteDef, Ref: m[1], Start: ln.start, End: ln.start}
	prefix := "[^" + m[1] + "]:" + m[2]
	tok.AppendChild(newLeaf(KindMarker, ln.start, prefix))
	for _, child := range parseInline(m[3], ln.start+len(prefix)) {
		tok.AppendChild(child)
	}
	if ln.eol != "" {
		tok.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
	}
	return tok
}

func isListItem(text string) bool {
	return orderedItemPattern.MatchString(text) || bulletItemPattern.MatchString(text)
}

// listLineLevel returns the nesting level of a list line from its leading
// whitespace.
func listLineLevel(text string) int {
	width, _ := leadingIndent(text)
	return width / IndentPerLevel
}

// parseList builds a (possibly nested) list from consecutive list lines.
// Nesting is driven purely by indentation depth; blank lines are attached to
// the current list so long as another list item follows them.
func (p *parser) parseList(level int) *Token {
	first := p.lines[p.pos]
	tok := &Token{Kind: KindList, Level: level, Start: first.start, End: first.start}
	if m := orderedItemPattern.FindStringSubmatch(first.text); m != nil {
		tok.Ordered = true
		if n, err := strconv.Atoi(m[2]); err == nil {
			tok.StartNum = n
		}
	}

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if strings.TrimSpace(ln.text) == "" {
			next, more := p.nextNonBlank()
			if !more || !isListItem(next.text) {
				return tok
			}
			tok.AppendChild(newLeaf(KindBlank, ln.start, ln.text+ln.eol))
			p.pos++
			continue
		}
		if !isListItem(ln.text) {
			return tok
		}
		lineLevel := listLineLevel(ln.text)
		if lineLevel < level {
			return tok
		}
		if lineLevel > level {
			tok.AppendChild(p.parseList(lineLevel))
			continue
		}
		ordered := orderedItemPattern.MatchString(ln.text)
		if ordered != tok.Ordered && len(tok.Children) > 0 {
			return tok
		}
		tok.AppendChild(p.parseListItem(level))
	}
	return tok
}

func (p *parser) nextNonBlank() (line, bool) {
	for i := p.pos + 1; i < len(p.lines); i++ {
		if strings.TrimSpace(p.lines[i].text) != "" {
			return p.lines[i], true
		}
	}
	return line{}, false
}

func (p *parser) parseListItem(level int) *Token {
	ln := p.lines[p.pos]
	p.pos++

	item := &Token{Kind: KindListItem, Level: level, Start: ln.start, End: ln.start}
	var prefix, body string
	if m := orderedItemPattern.FindStringSubmatch(ln.text); m != nil {
		prefix = m[1] + m[2] + m[3] + m[4]
		body = m[5]
		if n, err := strconv.Atoi(m[2]); err == nil {
			item.StartNum = n
		}
		item.Ordered = true
	} else {
		m := bulletItemPattern.FindStringSubmatch(ln.text)
		prefix = m[1] + m[2] + m[3]
		body = m[4]
	}

	item.AppendChild(newLeaf(KindMarker, ln.start, prefix))
	bodyStart := ln.start + len(prefix)

	if tm := taskPattern.FindStringSubmatch(body); tm != nil && !item.Ordered {
		item.Task = true
		item.Checked = tm[1] != " "
		box := "[" + tm[1] + "]" + tm[2]
		item.AppendChild(newLeaf(KindMarker, bodyStart, box))
		bodyStart += len(box)
		body = tm[3]
	}

	for _, child := range parseInline(body, bodyStart) {
		item.AppendChild(child)
	}
	if ln.eol != "" {
		item.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
	}
	return item
}

// startsTable reports whether the current line opens a pipe table, which
// requires a delimiter row immediately below a header row.
func (p *parser) startsTable() bool {
	ln := p.lines[p.pos]
	if !strings.Contains(ln.text, "|") {
		return false
	}
	next, ok := p.peek(1)
	if !ok {
		return false
	}
	return isTableDelim(next.text)
}

func (p *parser) looksLikeTableDelim() bool {
	// A `---` line directly under a `|`-bearing line belongs to a table.
	if p.pos == 0 {
		return false
	}
	return strings.Contains(p.lines[p.pos-1].text, "|") && isTableDelim(p.lines[p.pos].text)
}

func isTableDelim(text string) bool {
	trimmed := strings.TrimSpace(text)
	if !tableDelimPattern.MatchString(trimmed) || !strings.Contains(trimmed, "-") {
		return false
	}
	for _, cell := range splitTableCells(trimmed) {
		c := strings.TrimSpace(cell.text)
		if c == "" {
			continue
		}
		if !tableDelimCellCheck.MatchString(c) {
			return false
		}
	}
	return true
}

func delimAlignments(text string) []Alignment {
	var out []Alignment
	for _, cell := range splitTableCells(strings.TrimSpace(text)) {
		c := strings.TrimSpace(cell.text)
		if c == "" {
			continue
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			out = append(out, AlignCenter)
		case right:
			out = append(out, AlignRight)
		case left:
			out = append(out, AlignLeft)
		default:
			out = append(out, AlignNone)
		}
	}
	return out
}

type tableCell struct {
	offset int // byte offset of the cell text within the row
	text   string
}

// splitTableCells splits a row on unescaped pipes, dropping the empty
// outer cells produced by leading/trailing pipes.
func splitTableCells(row string) []tableCell {
	var cells []tableCell
	start := 0
	for i := 0; i < len(row); i++ {
		if row[i] == '|' && (i == 0 || row[i-1] != '\\') {
			cells = append(cells, tableCell{offset: start, text: row[start:i]})
			start = i + 1
		}
	}
	cells = append(cells, tableCell{offset: start, text: row[start:]})

	// Drop empty edge cells from outer pipes.
	if len(cells) > 0 && strings.TrimSpace(cells[0].text) == "" && strings.HasPrefix(row, "|") {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1].text) == "" && strings.HasSuffix(strings.TrimRight(row, " \t"), "|") {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func (p *parser) parseTable() *Token {
	header := p.lines[p.pos]
	delim := p.lines[p.pos+1]
	aligns := delimAlignments(delim.text)

	tok := &Token{Kind: KindTable, Start: header.start, End: header.start}
	tok.AppendChild(p.parseTableRow(header, aligns, true))
	tok.AppendChild(newLeaf(KindMarker, delim.start, delim.text+delim.eol))
	p.pos += 2

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if !strings.Contains(ln.text, "|") || strings.TrimSpace(ln.text) == "" {
			break
		}
		tok.AppendChild(p.parseTableRow(ln, aligns, false))
		p.pos++
	}
	return tok
}

func (p *parser) parseTableRow(ln line, aligns []Alignment, header bool) *Token {
	row := &Token{Kind: KindTableRow, Start: ln.start, End: ln.start}
	if header {
		row.Title = "header"
	}

	cells := splitTableCells(ln.text)
	cursor := 0
	for i, cell := range cells {
		if cell.offset > cursor {
			row.AppendChild(newLeaf(KindMarker, ln.start+cursor, ln.text[cursor:cell.offset]))
		}
		cellTok := &Token{Kind: KindTableCell, Start: ln.start + cell.offset, End: ln.start + cell.offset}
		if i < len(aligns) {
			cellTok.Align = aligns[i]
		}
		if header {
			cellTok.Title = "header"
		}
		appendTrimmedInline(cellTok, cell.text, ln.start+cell.offset)
		row.AppendChild(cellTok)
		cursor = cell.offset + len(cell.text)
	}
	if cursor < len(ln.text) {
		row.AppendChild(newLeaf(KindMarker, ln.start+cursor, ln.text[cursor:]))
	}
	if ln.eol != "" {
		row.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
	}
	return row
}

// appendTrimmedInline parses a cell's content, keeping surrounding whitespace
// as marker leaves so the row still tiles the source exactly.
func appendTrimmedInline(parent *Token, text string, base int) {
	trimmed := strings.TrimLeft(text, " \t")
	leading := len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t")
	if leading > 0 {
		parent.AppendChild(newLeaf(KindMarker, base, text[:leading]))
	}
	for _, child := range parseInline(trimmed, base+leading) {
		parent.AppendChild(child)
	}
	if tail := text[leading+len(trimmed):]; tail != "" {
		parent.AppendChild(newLeaf(KindMarker, base+leading+len(trimmed), tail))
	}
	if parent.IsLeaf() {
		// Wholly empty cell: keep a zero-length text leaf so the cell
		// still renders.
		parent.AppendChild(newLeaf(KindText, base, ""))
	}
}

// paragraphInterrupters decide when a run of plain lines ends.
func (p *parser) interruptsParagraph(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return headingPattern.MatchString(text) ||
		fencePattern.MatchString(text) ||
		quotePattern.MatchString(text) ||
		rulePattern.MatchString(text) ||
		isListItem(text) ||
		footnoteDefPattern.MatchString(text)
}

func (p *parser) parseParagraph() *Token {
	first := p.lines[p.pos]
	tok := &Token{Kind: KindParagraph, Start: first.start, End: first.start}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		text := ln.text
		breakLoc := hardBreakSuffix.FindStringIndex(text)
		if breakLoc != nil {
			text = text[:breakLoc[0]]
		}
		for _, child := range parseInline(text, ln.start) {
			tok.AppendChild(child)
		}
		if breakLoc != nil {
			tok.AppendChild(newLeaf(KindHardBreak, ln.start+breakLoc[0], ln.text[breakLoc[0]:]+ln.eol))
		} else if ln.eol != "" {
			tok.AppendChild(newLeaf(KindMarker, ln.start+len(ln.text), ln.eol))
		}
		p.pos++
		if next, ok := p.peek(0); !ok || p.interruptsParagraph(next.text) {
			break
		}
	}
	return tok
}
