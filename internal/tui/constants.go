package tui

import "time"

const (
	// toastDuration is how long transient status messages stay visible.
	toastDuration = 2 * time.Second

	// minPaneWidth keeps the editor usable on very narrow terminals; the
	// preview pane is dropped below twice this width.
	minPaneWidth = 28
)
