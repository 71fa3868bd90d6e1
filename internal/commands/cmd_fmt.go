package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/listfmt"
)

type FmtCmd struct {
	flags *Flags

	write bool
	check bool
}

// NewFmtCmd creates a new fmt command
func NewFmtCmd(flags *Flags) *FmtCmd {
	return &FmtCmd{flags: flags}
}

// Register adds the fmt command to the application
func (cmd *FmtCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fmt",
		Usage:     "Renumber ordered lists in markdown files",
		UsageText: "quill fmt [-w | --check] <glob>...",
		Description: `Applies the same list renumbering the editor performs while typing.
Patterns support ** recursive globs, e.g. 'docs/**/*.md'.

Without flags the formatted result is printed to stdout. With -w files are
rewritten in place; with --check nothing is written and the exit code is 1
when any file would change.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "write results back to the source files",
				Destination: &cmd.write,
			},
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "exit non-zero if any file is not normalized",
				Destination: &cmd.check,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FmtCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.write && cmd.check {
		return fmt.Errorf("-w and --check are mutually exclusive")
	}
	if c.Args().Len() == 0 {
		return fmt.Errorf("fmt requires at least one file or glob pattern")
	}

	paths, err := expandGlobs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched")
	}

	var changed []string
	for _, path := range paths {
		wasChanged, err := cmd.formatFile(path)
		if err != nil {
			return err
		}
		if wasChanged {
			changed = append(changed, path)
		}
	}

	if cmd.check && len(changed) > 0 {
		for _, path := range changed {
			fmt.Fprintln(os.Stderr, path)
		}
		return fmt.Errorf("%d file(s) not normalized", len(changed))
	}
	return nil
}

func (cmd *FmtCmd) formatFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	formatted := listfmt.Normalize(string(data))
	changed := formatted != string(data)

	switch {
	case cmd.check:
		return changed, nil
	case cmd.write:
		if !changed {
			return false, nil
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return false, fmt.Errorf("write %s: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("rewrote file")
		return true, nil
	default:
		_, err := io.WriteString(os.Stdout, formatted)
		return changed, err
	}
}

// expandGlobs resolves each argument as a doublestar pattern against the
// working directory. Arguments without glob metacharacters pass through
// untouched so missing files error instead of silently matching nothing.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}

	for _, arg := range args {
		if !hasGlobMeta(arg) {
			if !seen[arg] {
				seen[arg] = true
				paths = append(paths, arg)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func hasGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
