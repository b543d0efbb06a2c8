package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/moneygrowth-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (secrets masked)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Show the configuration file location",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt := GetRuntime(c)
	cfg := rt.Manager.Config().Redacted()
	return rt.render(c, cfg, func(w io.Writer) error {
		fmt.Fprintf(w, "# %s\n", rt.ConfigPath)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	})
}

func configPath(c *cli.Context) error {
	rt := GetRuntime(c)
	state := "not found, defaults in use"
	if _, err := os.Stat(rt.ConfigPath); err == nil {
		state = "found"
	}
	fmt.Fprintf(c.App.Writer, "%s (%s)\n", rt.ConfigPath, state)
	return nil
}

func configInit(c *cli.Context) error {
	rt := GetRuntime(c)
	if _, err := os.Stat(rt.ConfigPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists; use --force to overwrite", rt.ConfigPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(rt.Manager.Config(), rt.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Configuration written to %s\n", rt.ConfigPath)
	return nil
}
