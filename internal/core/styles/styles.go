// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"sort"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Glamour base style the markdown preview derives from.
	glamourBase glamouransi.StyleConfig
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "dark"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"dark": {
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#7dcfff"),
		Foreground:  lipgloss.Color("#c0caf5"),
		Muted:       lipgloss.Color("#565f89"),
		Background:  lipgloss.Color("#1a1b26"),
		Surface:     lipgloss.Color("#3b4261"),
		Success:     lipgloss.Color("#9ece6a"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		glamourBase: glamourstyles.DarkStyleConfig,
	},
	"light": {
		Primary:     lipgloss.Color("#2e7de9"),
		Secondary:   lipgloss.Color("#007197"),
		Foreground:  lipgloss.Color("#3760bf"),
		Muted:       lipgloss.Color("#848cb5"),
		Background:  lipgloss.Color("#e1e2e7"),
		Surface:     lipgloss.Color("#c4c8da"),
		Success:     lipgloss.Color("#587539"),
		Warning:     lipgloss.Color("#8c6c3e"),
		Error:       lipgloss.Color("#f52a65"),
		glamourBase: glamourstyles.LightStyleConfig,
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// Pane chrome. The focused pane gets the primary border.
	PaneBorderStyle        lipgloss.Style
	PaneBorderFocusedStyle lipgloss.Style
	PaneTitleStyle         lipgloss.Style

	// Status bar.
	StatusBarStyle      lipgloss.Style
	StatusFilenameStyle lipgloss.Style
	StatusDirtyStyle    lipgloss.Style
	StatusPositionStyle lipgloss.Style
	StatusModeStyle     lipgloss.Style

	// Dialogs.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style

	HelpStyle  lipgloss.Style
	ToastStyle lipgloss.Style
	ErrorStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	PaneBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)
	PaneBorderFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)
	StatusFilenameStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground).
		Bold(true).
		Padding(0, 1)
	StatusDirtyStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorWarning).
		Bold(true)
	StatusPositionStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorMuted).
		Padding(0, 1)
	StatusModeStyle = lipgloss.NewStyle().
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ToastStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	hex := string(c)
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := CurrentPalette.glamourBase

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary

	cfg.Table.Color = fg

	return cfg
}
