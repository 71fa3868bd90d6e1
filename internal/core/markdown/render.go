package markdown

import (
	"fmt"
	"html"
	"strings"
)

// Render converts markdown source into sanitized HTML. It is deterministic
// and never fails; unrecognized constructs pass through as escaped text.
func Render(src string) string {
	return RenderHTML(Sanitize(Parse(src)))
}

// RenderHTML serializes a render tree to HTML. Call Sanitize first when the
// tree will be shown to a user.
func RenderHTML(doc *Token) string {
	var b strings.Builder
	for _, child := range doc.Children {
		renderBlock(&b, child)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, tok *Token) {
	switch tok.Kind {
	case KindBlank:
		// Blank lines separate blocks; they produce no output.
	case KindParagraph:
		b.WriteString("<p>")
		renderInlineChildren(b, tok)
		b.WriteString("</p>\n")
	case KindHeading:
		fmt.Fprintf(b, "<h%d>", tok.Level)
		renderInlineChildren(b, tok)
		fmt.Fprintf(b, "</h%d>\n", tok.Level)
	case KindCodeBlock:
		renderCodeBlock(b, tok)
	case KindBlockquote:
		b.WriteString("<blockquote><p>")
		renderInlineChildren(b, tok)
		b.WriteString("</p></blockquote>\n")
	case KindHorizontalRule:
		b.WriteString("<hr>\n")
	case KindList:
		renderList(b, tok)
	case KindTable:
		renderTable(b, tok)
	case KindFootnoteDef:
		fmt.Fprintf(b, "<div class=%q id=%q><p>", "footnote", "fn:"+tok.Ref)
		renderInlineChildren(b, tok)
		b.WriteString("</p></div>\n")
	default:
		renderInline(b, tok)
	}
}

// renderInlineChildren renders a block's children as span content. Syntax
// markers vanish; markers holding line terminators keep their newline so
// multi-line paragraphs stay multi-line.
func renderInlineChildren(b *strings.Builder, tok *Token) {
	content := renderSpans(tok.Children)
	b.WriteString(strings.TrimRight(content, "\n"))
}

func renderSpans(toks []*Token) string {
	var b strings.Builder
	for _, t := range toks {
		renderInline(&b, t)
	}
	return b.String()
}

func renderInline(b *strings.Builder, tok *Token) {
	switch tok.Kind {
	case KindText:
		b.WriteString(html.EscapeString(tok.Text))
	case KindMarker:
		if strings.Contains(tok.Text, "\n") {
			b.WriteString("\n")
		}
	case KindBlank:
		b.WriteString("\n")
	case KindHardBreak:
		b.WriteString("<br>\n")
	case KindEmphasis:
		b.WriteString("<em>")
		b.WriteString(renderSpans(tok.Children))
		b.WriteString("</em>")
	case KindStrong:
		b.WriteString("<strong>")
		b.WriteString(renderSpans(tok.Children))
		b.WriteString("</strong>")
	case KindStrikethrough:
		b.WriteString("<del>")
		b.WriteString(renderSpans(tok.Children))
		b.WriteString("</del>")
	case KindCodeSpan:
		b.WriteString("<code>")
		for _, c := range tok.Children {
			if c.Kind == KindText {
				b.WriteString(html.EscapeString(c.Text))
			}
		}
		b.WriteString("</code>")
	case KindLink:
		fmt.Fprintf(b, "<a href=%q", html.EscapeString(tok.Destination))
		if tok.Title != "" {
			fmt.Fprintf(b, " title=%q", html.EscapeString(tok.Title))
		}
		b.WriteString(">")
		b.WriteString(strings.TrimRight(renderSpans(tok.Children), "\n"))
		b.WriteString("</a>")
	case KindImage:
		fmt.Fprintf(b, "<img src=%q alt=%q>", html.EscapeString(tok.Destination), html.EscapeString(tok.Title))
	case KindFootnoteRef:
		fmt.Fprintf(b, "<sup class=%q><a href=%q>%s</a></sup>",
			"footnote-ref", "#fn:"+tok.Ref, html.EscapeString(tok.Ref))
	default:
		for _, c := range tok.Children {
			renderInline(b, c)
		}
	}
}

// renderCodeBlock emits the escaped, keyword-highlighted fence body. An
// empty fence still renders an empty code element.
func renderCodeBlock(b *strings.Builder, tok *Token) {
	var body string
	for _, c := range tok.Children {
		if c.Kind == KindText {
			body = c.Text
		}
	}
	if tok.Info != "" {
		fmt.Fprintf(b, "<pre><code class=%q>", "language-"+tok.Info)
	} else {
		b.WriteString("<pre><code>")
	}
	b.WriteString(highlightCode(tok.Info, strings.TrimSuffix(body, "\n")))
	b.WriteString("</code></pre>\n")
}

// renderList nests child lists inside the preceding item, matching the HTML
// structure markdown renderers produce for indented sublists.
func renderList(b *strings.Builder, tok *Token) {
	open, closeTag := "<ul>", "</ul>"
	if tok.Ordered {
		closeTag = "</ol>"
		if tok.StartNum > 1 {
			open = fmt.Sprintf("<ol start=%q>", fmt.Sprint(tok.StartNum))
		} else {
			open = "<ol>"
		}
	}
	b.WriteString(open)
	b.WriteString("\n")

	var pendingItem *strings.Builder
	flushItem := func() {
		if pendingItem != nil {
			b.WriteString(pendingItem.String())
			b.WriteString("</li>\n")
			pendingItem = nil
		}
	}

	for _, child := range tok.Children {
		switch child.Kind {
		case KindListItem:
			flushItem()
			pendingItem = &strings.Builder{}
			pendingItem.WriteString("<li>")
			if child.Task {
				if child.Checked {
					pendingItem.WriteString(`<input type="checkbox" checked disabled> `)
				} else {
					pendingItem.WriteString(`<input type="checkbox" disabled> `)
				}
			}
			pendingItem.WriteString(strings.TrimRight(renderSpans(child.Children), "\n"))
		case KindList:
			if pendingItem == nil {
				pendingItem = &strings.Builder{}
				pendingItem.WriteString("<li>")
			}
			pendingItem.WriteString("\n")
			renderList(pendingItem, child)
		}
	}
	flushItem()
	b.WriteString(closeTag)
	b.WriteString("\n")
}

func renderTable(b *strings.Builder, tok *Token) {
	b.WriteString("<table>\n")
	inBody := false
	for _, row := range tok.Children {
		if row.Kind != KindTableRow {
			continue
		}
		header := row.Title == "header"
		if header {
			b.WriteString("<thead>\n")
		} else if !inBody {
			b.WriteString("<tbody>\n")
			inBody = true
		}
		b.WriteString("<tr>")
		for _, cell := range row.Children {
			if cell.Kind != KindTableCell {
				continue
			}
			tag := "td"
			if header {
				tag = "th"
			}
			b.WriteString("<")
			b.WriteString(tag)
			switch cell.Align {
			case AlignLeft:
				b.WriteString(` align="left"`)
			case AlignCenter:
				b.WriteString(` align="center"`)
			case AlignRight:
				b.WriteString(` align="right"`)
			}
			b.WriteString(">")
			b.WriteString(strings.TrimSpace(renderSpans(cell.Children)))
			b.WriteString("</")
			b.WriteString(tag)
			b.WriteString(">")
		}
		b.WriteString("</tr>\n")
		if header {
			b.WriteString("</thead>\n")
		}
	}
	if inBody {
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n")
}
