package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/data/drafts"
	"github.com/colonyops/quill/pkg/iojson"
)

type DraftsCmd struct {
	flags *Flags

	force      bool
	jsonOutput bool
}

// NewDraftsCmd creates a new drafts command
func NewDraftsCmd(flags *Flags) *DraftsCmd {
	return &DraftsCmd{flags: flags}
}

// Register adds the drafts command to the application
func (cmd *DraftsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "drafts",
		Usage:     "Manage autosaved drafts",
		UsageText: "quill drafts <ls|rm|clear>",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List autosaved drafts",
				UsageText: "quill drafts ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "rm",
				Usage:     "Remove the draft for a file",
				UsageText: "quill drafts rm <filename>",
				Action:    cmd.runRemove,
			},
			{
				Name:      "clear",
				Usage:     "Remove all drafts",
				UsageText: "quill drafts clear [--force]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Aliases:     []string{"f"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *DraftsCmd) open() (*drafts.Store, error) {
	return drafts.Open(cmd.flags.Config.DataDir)
}

func (cmd *DraftsCmd) runList(_ context.Context, _ *cli.Command) error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.List()
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.Write(all)
	}

	if len(all) == 0 {
		fmt.Fprintln(os.Stderr, "No drafts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSAVED\tSIZE")
	for _, d := range all {
		name := d.Filename
		if name == "" {
			name = "[untitled]"
		}
		fmt.Fprintf(w, "%s\t%s\t%d bytes\n", name, d.SavedAt.Format("2006-01-02 15:04:05"), len(d.Text))
	}
	return w.Flush()
}

func (cmd *DraftsCmd) runRemove(_ context.Context, c *cli.Command) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("rm requires a filename (use '%s' for the scratch draft)", drafts.UntitledKey)
	}
	if name == drafts.UntitledKey {
		name = ""
	}

	store, err := cmd.open()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(name); err != nil {
		return fmt.Errorf("remove draft: %w", err)
	}
	return nil
}

func (cmd *DraftsCmd) runClear(ctx context.Context, _ *cli.Command) error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	if !cmd.force {
		ok, err := HuhDialog{}.AskConfirmation(ctx, fmt.Sprintf("Delete %d draft(s)?", len(all)))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	return store.Clear()
}
