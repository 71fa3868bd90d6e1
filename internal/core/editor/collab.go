package editor

import (
	"context"
	"errors"

	"github.com/colonyops/quill/internal/core/cursor"
)

// ErrNoDocument is returned by storage collaborators when there is nothing
// to load. Callers treat it as an empty document, not a failure.
var ErrNoDocument = errors.New("no document")

// Storage loads and persists the canonical document text. A failed save
// must leave the in-memory document untouched; the session guarantees that
// by only clearing its dirty flag after SaveText returns nil.
type Storage interface {
	LoadText(ctx context.Context) (string, error)
	SaveText(ctx context.Context, text string) error
}

// Dialog is the request/response boundary for user decisions. Cancelled
// prompts report ok=false and are treated exactly like "no".
type Dialog interface {
	AskConfirmation(ctx context.Context, prompt string) (bool, error)
	AskInput(ctx context.Context, prompt, defaultValue string) (value string, ok bool, err error)
}

// RenderTarget is the editable surface. The session only ever speaks to it
// in structural positions; the cursor mapper does all offset translation.
type RenderTarget interface {
	GetStructuralSelection() (start, end cursor.Position)
	SetStructuralSelection(start, end cursor.Position)
}

// StaticDialog is a Dialog that always answers the same way. Useful as a
// default and in tests.
type StaticDialog struct {
	Confirm bool
	Input   string
	OK      bool
}

// AskConfirmation returns the fixed answer.
func (d StaticDialog) AskConfirmation(context.Context, string) (bool, error) {
	return d.Confirm, nil
}

// AskInput returns the fixed answer.
func (d StaticDialog) AskInput(context.Context, string, string) (string, bool, error) {
	return d.Input, d.OK, nil
}
