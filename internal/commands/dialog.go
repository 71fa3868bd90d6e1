package commands

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/quill/internal/core/editor"
)

// HuhDialog implements editor.Dialog with interactive terminal prompts.
type HuhDialog struct{}

var _ editor.Dialog = HuhDialog{}

// AskConfirmation shows a yes/no prompt.
func (HuhDialog) AskConfirmation(_ context.Context, prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// AskInput shows a single text field. The second return is false when the
// user aborted instead of answering.
func (HuhDialog) AskInput(_ context.Context, prompt, defaultValue string) (string, bool, error) {
	value := defaultValue
	err := huh.NewInput().
		Title(prompt).
		Value(&value).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
