package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/colonyops/quill/internal/core/styles"
)

// StatusInfo carries the fields the status bar displays.
type StatusInfo struct {
	Filename string
	Dirty    bool
	Line     int // 1-based
	Col      int // 1-based
	Words    int
	Mode     string // EDIT or VIEW
}

// renderStatusBar builds the bottom status line, padded to width using
// display cell widths so wide runes in filenames do not skew the layout.
func renderStatusBar(info StatusInfo, width int) string {
	name := info.Filename
	if name == "" {
		name = "[untitled]"
	}

	dirty := " "
	if info.Dirty {
		dirty = styles.StatusDirtyStyle.Render("●")
	}

	mode := styles.StatusModeStyle.Render(info.Mode)
	left := mode + styles.StatusFilenameStyle.Render(name) + dirty
	right := styles.StatusPositionStyle.Render(
		fmt.Sprintf("%d words  Ln %d, Col %d", info.Words, info.Line, info.Col),
	)

	pad := width - runewidth.StringWidth(ansi.Strip(left)) - runewidth.StringWidth(ansi.Strip(right))
	if pad < 1 {
		pad = 1
	}

	return left + styles.StatusBarStyle.Render(strings.Repeat(" ", pad)) + right
}
