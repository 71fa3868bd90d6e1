package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/quill/internal/core/editor"
	"github.com/colonyops/quill/internal/data/drafts"
	"github.com/colonyops/quill/internal/tui"
)

type EditCmd struct {
	flags *Flags

	noPreview bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open a markdown file in the editor",
		UsageText: "quill edit [file]",
		Description: `Opens the split-pane editor with live preview. Without a file argument a
scratch buffer is opened; saving it prompts for a filename.

Ordered lists renumber as you type, Enter continues list items, and Tab or
Shift+Tab changes nesting. Autosaved drafts are offered for recovery when
they are newer than the file on disk.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-preview",
				Usage:       "start with the preview pane hidden",
				Destination: &cmd.noPreview,
			},
		},
		Action: cmd.Run,
	})

	return app
}

// Run opens the editor; it also backs the root command's default action.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("edit requires an interactive terminal; use 'quill render' for piped output")
	}

	var (
		path     = c.Args().First()
		text     string
		storage  editor.Storage
		filename string
	)
	if path != "" {
		fs := NewFileStorage(path)
		loaded, err := fs.LoadText(ctx)
		if err != nil && !errors.Is(err, editor.ErrNoDocument) {
			return err
		}
		text = loaded
		storage = fs
		filename = path
	}

	draftStore, err := drafts.Open(cmd.flags.Config.DataDir)
	if err != nil {
		// The editor works without autosave; degrade instead of refusing
		// to start.
		log.Warn().Err(err).Msg("draft store unavailable")
		draftStore = nil
	} else {
		defer draftStore.Close()
	}

	opts := tui.Options{
		Config:      cmd.flags.Config,
		Logger:      log.Logger,
		Storage:     storage,
		Drafts:      draftStore,
		Filename:    filename,
		Text:        text,
		OpenStorage: func(name string) editor.Storage { return NewFileStorage(name) },
		HidePreview: cmd.noPreview,
	}
	return tui.Run(opts)
}
