package listfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/colonyops/quill/internal/core/markdown"
)

var (
	orderedMarkerPattern = regexp.MustCompile(`^([ \t]*)(\d+)([.)])([ \t]+)(.*)$`)
	bulletMarkerPattern  = regexp.MustCompile(`^([ \t]*)([-*+])([ \t]+)(.*)$`)
	taskBoxPattern       = regexp.MustCompile(`^\[([ xX])\][ \t]+`)
)

// lineBounds returns the start and end offsets of the line containing
// offset. End excludes the terminating newline.
func lineBounds(text string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += offset
	}
	return start, end
}

// ContinueOnEnter implements list-aware line breaking. When the cursor sits
// on a list-item line, the break inserts a sibling marker of the same type
// and level (ordered markers advance by one). Breaking on an empty item
// strips the marker instead, so repeated Enters never pile up empty numbered
// lines. The returned bool is false when the line is not a list item and the
// caller should insert a plain newline.
func ContinueOnEnter(text string, offset int) (string, int, bool) {
	start, end := lineBounds(text, offset)
	line := text[start:end]

	var indent, marker, content string
	if m := orderedMarkerPattern.FindStringSubmatch(line); m != nil {
		indent = m[1]
		content = m[5]
		n, _ := strconv.Atoi(m[2])
		marker = strconv.Itoa(n+1) + ". "
	} else if m := bulletMarkerPattern.FindStringSubmatch(line); m != nil {
		indent = m[1]
		content = m[4]
		marker = m[2] + " "
		if tm := taskBoxPattern.FindStringSubmatch(content); tm != nil {
			marker += "[ ] "
			content = content[len(tm[0]):]
		}
	} else {
		return text, offset, false
	}

	if strings.TrimSpace(content) == "" {
		// Empty item: remove the marker and exit list context.
		out := text[:start] + text[end:]
		return out, start, true
	}

	inserted := "\n" + indent + marker
	out := text[:offset] + inserted + text[offset:]
	return out, offset + len(inserted), true
}

// IsListLine reports whether the line containing offset is an ordered or
// bullet list item.
func IsListLine(text string, offset int) bool {
	start, end := lineBounds(text, offset)
	line := text[start:end]
	return orderedMarkerPattern.MatchString(line) || bulletMarkerPattern.MatchString(line)
}

// Shift moves every list line overlapping [selStart, selEnd] by delta
// nesting levels (delta is +1 or -1). Non-list lines in the range are left
// alone. It returns the shifted text and the adjusted selection; callers
// must renumber with Normalize before showing the result.
func Shift(text string, selStart, selEnd, delta int) (string, int, int) {
	if selEnd < selStart {
		selStart, selEnd = selEnd, selStart
	}
	firstStart, _ := lineBounds(text, selStart)
	_, lastEnd := lineBounds(text, selEnd)

	indentUnit := strings.Repeat(" ", markdown.IndentPerLevel)
	lines := strings.Split(text[firstStart:lastEnd], "\n")
	for i, ln := range lines {
		if !orderedMarkerPattern.MatchString(ln) && !bulletMarkerPattern.MatchString(ln) {
			continue
		}
		if delta > 0 {
			lines[i] = indentUnit + ln
		} else if strings.HasPrefix(ln, indentUnit) {
			lines[i] = ln[len(indentUnit):]
		} else {
			lines[i] = strings.TrimLeft(ln, " \t")
		}
	}
	shifted := strings.Join(lines, "\n")

	out := text[:firstStart] + shifted + text[lastEnd:]
	diff := len(shifted) - (lastEnd - firstStart)
	newStart := selStart
	if delta > 0 {
		newStart += markdown.IndentPerLevel
	} else if newStart > firstStart {
		newStart = max(firstStart, newStart-markdown.IndentPerLevel)
	}
	newEnd := selEnd + diff
	if newEnd < newStart {
		newEnd = newStart
	}
	return out, newStart, newEnd
}

// ToggleTask flips the checkbox of the task item on the cursor's line.
// A plain bullet gains an unchecked box; a non-list line is returned
// unchanged.
func ToggleTask(text string, offset int) (string, bool) {
	start, end := lineBounds(text, offset)
	line := text[start:end]

	m := bulletMarkerPattern.FindStringSubmatch(line)
	if m == nil {
		return text, false
	}
	prefix := m[1] + m[2] + m[3]
	content := m[4]

	var newLine string
	if tm := taskBoxPattern.FindStringSubmatch(content); tm != nil {
		rest := content[len(tm[0]):]
		box := "[x] "
		if tm[1] != " " {
			box = "[ ] "
		}
		newLine = prefix + box + rest
	} else {
		newLine = prefix + "[ ] " + content
	}
	return text[:start] + newLine + text[end:], true
}
