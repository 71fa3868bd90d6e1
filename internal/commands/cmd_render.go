package commands

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/markdown"
)

type RenderCmd struct {
	flags *Flags

	fullPage bool
	output   string
	title    string
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render markdown to sanitized HTML",
		UsageText: "quill render [--full-page] [-o out.html] [file]",
		Description: `Renders a markdown file (or stdin when no file is given) to HTML on stdout.

Output is sanitized: script-capable URL schemes are stripped and raw HTML in
the source is escaped, so the result is safe to embed directly.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "full-page",
				Usage:       "wrap the fragment in a complete HTML document",
				Destination: &cmd.fullPage,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to a file instead of stdout",
				Destination: &cmd.output,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "page title for --full-page (defaults to the filename)",
				Destination: &cmd.title,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(_ context.Context, c *cli.Command) error {
	path := c.Args().First()

	var (
		src []byte
		err error
	)
	if path == "" || path == "-" {
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		src, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	out := markdown.Render(string(src))
	if cmd.fullPage {
		title := cmd.title
		if title == "" && path != "" && path != "-" {
			title = filepath.Base(path)
		}
		out = FullPage(title, out)
	}

	if cmd.output != "" {
		if err := os.WriteFile(cmd.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", cmd.output, err)
		}
		return nil
	}

	_, err = io.WriteString(os.Stdout, out)
	return err
}

// FullPage wraps an HTML fragment in a minimal standalone document.
func FullPage(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
