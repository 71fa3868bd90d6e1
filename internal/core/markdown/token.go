// Package markdown converts markdown source into a sanitized render tree
// and renders that tree as HTML.
//
// Parsing is two-pass: a line-oriented block pass followed by an inline pass
// over each text run. The resulting tree is lossless — concatenating every
// leaf span in document order reproduces the source text exactly, because
// syntax markers (heading prefixes, fence lines, emphasis delimiters) are
// kept as their own leaf tokens rather than discarded.
package markdown

// Kind identifies a parsed markdown construct.
type Kind int

// Supported construct kinds. KindMarker and KindBlank are structural leaves
// that carry syntax or empty lines; renderers skip their text.
const (
	KindDocument Kind = iota
	KindText
	KindMarker
	KindBlank
	KindParagraph
	KindHeading
	KindCodeBlock
	KindBlockquote
	KindHorizontalRule
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindLink
	KindImage
	KindFootnoteRef
	KindFootnoteDef
	KindHardBreak
)

var kindNames = map[Kind]string{
	KindDocument:       "document",
	KindText:           "text",
	KindMarker:         "marker",
	KindBlank:          "blank",
	KindParagraph:      "paragraph",
	KindHeading:        "heading",
	KindCodeBlock:      "code_block",
	KindBlockquote:     "blockquote",
	KindHorizontalRule: "horizontal_rule",
	KindList:           "list",
	KindListItem:       "list_item",
	KindTable:          "table",
	KindTableRow:       "table_row",
	KindTableCell:      "table_cell",
	KindEmphasis:       "emphasis",
	KindStrong:         "strong",
	KindStrikethrough:  "strikethrough",
	KindCodeSpan:       "code_span",
	KindLink:           "link",
	KindImage:          "image",
	KindFootnoteRef:    "footnote_ref",
	KindFootnoteDef:    "footnote_def",
	KindHardBreak:      "hard_break",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Alignment is a table column alignment parsed from the delimiter row.
type Alignment int

// Table cell alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Token is one node of the render tree. Start and End are byte offsets into
// the source document covering the token's raw span, markers included.
type Token struct {
	Kind     Kind
	Start    int
	End      int
	Children []*Token

	// Text holds the literal content for leaf tokens (KindText, KindMarker,
	// KindBlank and code block bodies).
	Text string

	// Level is the heading level (1-6) or the list nesting depth (0-based).
	Level int

	// Info is the language tag of a fenced code block.
	Info string

	// Ordered list metadata.
	Ordered  bool
	StartNum int

	// Task list item state. Checked is meaningful only when Task is true.
	Task    bool
	Checked bool

	// Destination and Title describe links and images. For images,
	// Destination is the source URL and Title the alt text.
	Destination string
	Title       string

	// Align applies to table cells.
	Align Alignment

	// Ref is the footnote identifier for KindFootnoteRef / KindFootnoteDef.
	Ref string
}

// IsLeaf reports whether the token has no children.
func (t *Token) IsLeaf() bool { return len(t.Children) == 0 }

// AppendChild attaches a child and widens the parent span to cover it.
func (t *Token) AppendChild(child *Token) {
	if len(t.Children) == 0 && t.Start == t.End {
		t.Start = child.Start
	}
	if child.End > t.End {
		t.End = child.End
	}
	t.Children = append(t.Children, child)
}

// Walk visits every token depth-first, parents before children. Returning
// false from fn skips the token's children.
func (t *Token) Walk(fn func(*Token) bool) {
	if !fn(t) {
		return
	}
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Leaves returns the tree's leaf tokens in document order.
func (t *Token) Leaves() []*Token {
	var out []*Token
	t.Walk(func(tok *Token) bool {
		if tok.IsLeaf() && tok.Kind != KindDocument {
			out = append(out, tok)
		}
		return true
	})
	return out
}

func newLeaf(kind Kind, start int, text string) *Token {
	return &Token{Kind: kind, Start: start, End: start + len(text), Text: text}
}
