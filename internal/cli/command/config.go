package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/blessfleet/internal/agent/config"
	"github.com/yndnr/blessfleet/internal/cli/output"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Print the effective configuration with secrets masked",
		Flags:  outputFlags(),
		Action: configAction,
	}
}

// configAction prints the configuration even when it does not verify, so
// the user can see what was loaded; the verification error is returned
// afterwards.
func configAction(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format, c.Bool("wide"))
	if err := formatter.Format(c.App.Writer, config.Sanitize(cfg).Map()); err != nil {
		return err
	}
	return config.Verify(cfg)
}
