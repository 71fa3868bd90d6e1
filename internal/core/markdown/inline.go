package markdown

import (
	"regexp"
	"strings"
)

var (
	imagePattern       = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)"\s]*)(?:[ \t]+"([^"]*)")?\)`)
	linkPattern        = regexp.MustCompile(`^\[([^\]]*)\]\(([^)"\s]*)(?:[ \t]+"([^"]*)")?\)`)
	footnoteRefPattern = regexp.MustCompile(`^\[\^([^\]\s]+)\]`)
)

// parseInline tokenizes span-level constructs in one text run. base is the
// absolute offset of text within the source document, so every produced
// token carries exact spans. Delimiters with no matching closer stay literal
// text; nothing here can fail.
func parseInline(text string, base int) []*Token {
	var (
		out      []*Token
		runStart = 0
	)

	flush := func(end int) {
		if end > runStart {
			out = append(out, newLeaf(KindText, base+runStart, text[runStart:end]))
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '\\':
			if i+1 < len(text) && isPunct(text[i+1]) {
				flush(i)
				out = append(out, newLeaf(KindMarker, base+i, `\`))
				runStart = i + 1
				i += 2
				continue
			}
		case '`':
			if tok, next := parseCodeSpan(text, i, base); tok != nil {
				flush(i)
				out = append(out, tok)
				runStart = next
				i = next
				continue
			}
		case '!':
			if m := imagePattern.FindStringSubmatch(text[i:]); m != nil {
				flush(i)
				out = append(out, buildImage(m, base+i))
				runStart = i + len(m[0])
				i = runStart
				continue
			}
		case '[':
			if m := footnoteRefPattern.FindStringSubmatch(text[i:]); m != nil {
				flush(i)
				ref := &Token{Kind: KindFootnoteRef, Ref: m[1], Start: base + i, End: base + i}
				ref.AppendChild(newLeaf(KindMarker, base+i, m[0]))
				out = append(out, ref)
				runStart = i + len(m[0])
				i = runStart
				continue
			}
			if m := linkPattern.FindStringSubmatch(text[i:]); m != nil {
				flush(i)
				out = append(out, buildLink(m, base+i))
				runStart = i + len(m[0])
				i = runStart
				continue
			}
		case '*', '_', '~':
			if tok, next := parseEmphasis(text, i, base); tok != nil {
				flush(i)
				out = append(out, tok)
				runStart = next
				i = next
				continue
			}
		}
		i++
	}
	flush(len(text))
	return out
}

func isPunct(c byte) bool {
	return strings.IndexByte("\\`*_~[]()!#+-.<>|{}\"'", c) >= 0
}

// parseCodeSpan matches a backtick-delimited code span starting at i. The
// closing run must have the same backtick count as the opener.
func parseCodeSpan(text string, i, base int) (*Token, int) {
	n := 0
	for i+n < len(text) && text[i+n] == '`' {
		n++
	}
	delim := text[i : i+n]
	rest := text[i+n:]

	// The closing run must be exactly n backticks, not part of a longer run.
	close := -1
	for j := 0; j < len(rest); {
		k := strings.Index(rest[j:], delim)
		if k < 0 {
			break
		}
		pos := j + k
		runEnd := pos + n
		partOfLonger := (pos > 0 && rest[pos-1] == '`') || (runEnd < len(rest) && rest[runEnd] == '`')
		if !partOfLonger {
			close = pos
			break
		}
		j = runEnd
		for j < len(rest) && rest[j] == '`' {
			j++
		}
	}
	if close < 0 {
		return nil, i
	}

	tok := &Token{Kind: KindCodeSpan, Start: base + i, End: base + i}
	tok.AppendChild(newLeaf(KindMarker, base+i, delim))
	tok.AppendChild(newLeaf(KindText, base+i+n, rest[:close]))
	tok.AppendChild(newLeaf(KindMarker, base+i+n+close, delim))
	return tok, i + n + close + n
}

// parseEmphasis handles *, _, ~~ and their stacked forms. `***x***` parses
// as strong wrapping emphasis rather than nested strongs.
func parseEmphasis(text string, i, base int) (*Token, int) {
	c := text[i]
	n := 0
	for i+n < len(text) && text[i+n] == c {
		n++
	}

	switch {
	case c == '~':
		if n < 2 {
			return nil, i
		}
		return matchDelimited(text, i, base, "~~", KindStrikethrough, false)
	case n >= 3:
		if tok, next := matchDelimited(text, i, base, strings.Repeat(string(c), 3), KindStrong, true); tok != nil {
			return tok, next
		}
		fallthrough
	case n == 2:
		if tok, next := matchDelimited(text, i, base, strings.Repeat(string(c), 2), KindStrong, false); tok != nil {
			return tok, next
		}
		fallthrough
	default:
		return matchDelimited(text, i, base, string(c), KindEmphasis, false)
	}
}

// matchDelimited builds a span token for content wrapped in delim. When
// wrapInner is set the content is additionally wrapped in an emphasis node,
// which is how `***x***` becomes strong+em.
func matchDelimited(text string, i, base int, delim string, kind Kind, wrapInner bool) (*Token, int) {
	inner := text[i+len(delim):]
	close := strings.Index(inner, delim)
	if close <= 0 {
		return nil, i
	}
	content := inner[:close]
	if strings.TrimSpace(content) == "" {
		return nil, i
	}

	tok := &Token{Kind: kind, Start: base + i, End: base + i}
	tok.AppendChild(newLeaf(KindMarker, base+i, delim))

	children := parseInline(content, base+i+len(delim))
	if wrapInner {
		em := &Token{Kind: KindEmphasis, Start: base + i + len(delim), End: base + i + len(delim)}
		for _, child := range children {
			em.AppendChild(child)
		}
		tok.AppendChild(em)
	} else {
		for _, child := range children {
			tok.AppendChild(child)
		}
	}

	tok.AppendChild(newLeaf(KindMarker, base+i+len(delim)+close, delim))
	return tok, i + len(delim) + close + len(delim)
}

func buildImage(m []string, start int) *Token {
	tok := &Token{Kind: KindImage, Destination: m[2], Title: m[1], Start: start, End: start}
	tok.AppendChild(newLeaf(KindMarker, start, m[0]))
	return tok
}

func buildLink(m []string, start int) *Token {
	tok := &Token{Kind: KindLink, Destination: m[2], Title: m[3], Start: start, End: start}
	tok.AppendChild(newLeaf(KindMarker, start, "["))
	for _, child := range parseInline(m[1], start+1) {
		tok.AppendChild(child)
	}
	tail := m[0][1+len(m[1]):]
	tok.AppendChild(newLeaf(KindMarker, start+1+len(m[1]), tail))
	return tok
}
