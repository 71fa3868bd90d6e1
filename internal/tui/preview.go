package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/pkg/kv"
)

type previewKey struct {
	text  string
	width int
}

// PreviewRenderer renders markdown source to styled terminal output for the
// preview pane. Renders are memoized per (text, width) so scrolling and
// cursor motion never re-render an unchanged document.
type PreviewRenderer struct {
	cache *kv.Store[previewKey, string]
}

// NewPreviewRenderer creates a renderer with an empty cache.
func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{
		cache: kv.New[previewKey, string](),
	}
}

// Render returns the styled preview for the document at the given width.
// Render failures degrade to the raw source rather than erroring the UI.
func (p *PreviewRenderer) Render(text string, width int) string {
	if width < 1 {
		width = 1
	}
	key := previewKey{text: text, width: width}
	if out, ok := p.cache.Get(key); ok {
		return out
	}

	out, err := p.render(text, width)
	if err != nil {
		out = text
	}

	// Renders accumulate while typing; cap the cache so a long session
	// does not hold every intermediate document in memory.
	if p.cache.Len() > 64 {
		p.cache.Clear()
	}
	p.cache.Set(key, out)
	return out
}

func (p *PreviewRenderer) render(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create preview renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}

// Invalidate drops all cached renders, used after a theme change.
func (p *PreviewRenderer) Invalidate() {
	p.cache.Clear()
}
