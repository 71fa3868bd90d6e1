// Package listfmt renumbers and re-indents ordered markdown lists.
//
// The normalizer is a pure function over the whole document: it infers
// nesting purely from indentation and digits, so it can be re-run after any
// edit and always converges. Running it twice is the same as running it
// once, and no state survives between runs, so a bad prior pass can never
// poison a later one.
package listfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/colonyops/quill/internal/core/markdown"
)

var (
	orderedLinePattern = regexp.MustCompile(`^([ \t]*)(\d+)[.)][ \t]+(.*)$`)
	bulletLinePattern  = regexp.MustCompile(`^([ \t]*)[-*+][ \t]+`)
	fenceLinePattern   = regexp.MustCompile("^[ \t]*(```|~~~)")
)

// levelState tracks one active nesting level during a renumbering pass.
// parentAtEntry is the parent level's last emitted number when this level's
// run began; a later mismatch means the run restarted under a new parent.
type levelState struct {
	counter       int
	parentAtEntry int
}

// indentWidth expands tabs using the tokenizer's tab constant so both
// components infer identical nesting depths.
func indentWidth(s string) int {
	width := 0
	for _, r := range s {
		switch r {
		case ' ':
			width++
		case '\t':
			width += markdown.TabWidth
		default:
			return width
		}
	}
	return width
}

// Normalize rewrites every ordered-list line with sequential numbering and
// two-space-per-level indentation. Unordered lists, fenced code and ordinary
// text pass through untouched. The result is idempotent.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	states := make(map[int]*levelState)
	prevLevel := -1
	inFence := false

	clearDeeper := func(level int) {
		for l := range states {
			if l > level {
				delete(states, l)
			}
		}
	}
	parentNumber := func(level int) int {
		if level == 0 {
			return 0
		}
		parent, ok := states[level-1]
		if !ok {
			return 0
		}
		return parent.counter - 1
	}

	for i, ln := range lines {
		body := strings.TrimSuffix(ln, "\r")

		if fenceLinePattern.MatchString(body) {
			inFence = !inFence
			states = make(map[int]*levelState)
			prevLevel = -1
			continue
		}
		if inFence {
			continue
		}
		if strings.TrimSpace(body) == "" {
			// Blank lines do not end list context.
			continue
		}

		if m := orderedLinePattern.FindStringSubmatch(body); m != nil {
			level := indentWidth(m[1]) / markdown.IndentPerLevel

			if prevLevel >= 0 && level < prevLevel {
				clearDeeper(level)
			}
			if st, ok := states[level]; ok {
				if st.parentAtEntry != parentNumber(level) {
					clearDeeper(level - 1)
					states[level] = &levelState{counter: 1, parentAtEntry: parentNumber(level)}
				}
			} else {
				states[level] = &levelState{counter: 1, parentAtEntry: parentNumber(level)}
			}

			st := states[level]
			normalized := strings.Repeat(" ", level*markdown.IndentPerLevel) +
				strconv.Itoa(st.counter) + ". " + m[3]
			if strings.HasSuffix(ln, "\r") {
				normalized += "\r"
			}
			lines[i] = normalized
			st.counter++
			prevLevel = level
			continue
		}

		if bulletLinePattern.MatchString(body) {
			// Bullets keep list context alive but are never rewritten.
			level := indentWidth(body) / markdown.IndentPerLevel
			if prevLevel >= 0 && level < prevLevel {
				clearDeeper(level)
			}
			prevLevel = level
			continue
		}

		// Any other non-blank line ends all list context.
		states = make(map[int]*levelState)
		prevLevel = -1
	}

	return strings.Join(lines, "\n")
}
