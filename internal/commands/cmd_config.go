package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/config"
)

type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "quill config validate",
				Description: "Checks debounce intervals, history limits, and theme names.",
				Action:      cmd.runValidate,
			},
			{
				Name:      "path",
				Usage:     "Print the configuration file path",
				UsageText: "quill config path",
				Action:    cmd.runPath,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runValidate(_ context.Context, _ *cli.Command) error {
	// Reload instead of using flags.Config so validation reports against
	// the file as it is on disk right now.
	cfg, err := config.Load(cmd.flags.ConfigPath, cmd.flags.DataDir)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Println("Configuration is valid")
	return nil
}

func (cmd *ConfigCmd) runPath(_ context.Context, _ *cli.Command) error {
	fmt.Println(cmd.flags.ConfigPath)
	return nil
}
