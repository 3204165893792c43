package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/blessfleet/internal/agent/config"
	"github.com/yndnr/blessfleet/internal/infra/buildinfo"
	"github.com/yndnr/blessfleet/internal/infra/confloader"
	"github.com/yndnr/blessfleet/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "blessfleet",
		Usage:   "Keep a fleet of Bless nodes registered and heartbeating",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			NodesCommand(),
			ConfigCommand(),
			StatusCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (YAML or JSON)",
			EnvVars: []string{"BLESSFLEET_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "accounts",
			Aliases: []string{"init"},
			Usage:   "Path to a JSON accounts file: [{\"token\": ..., \"proxy\": ...}]",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Load environment variables from this file if it exists",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
	}
}

// outputFlags are shared by the commands that print results.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
	}
}

// flagOverrides maps explicitly set flags to config keys. They win over
// the config file and environment.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range map[string]string{
		"accounts":    "accounts_file",
		"log-level":   "log.level",
		"log-format":  "log.format",
		"status-addr": "status.addr",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	return overrides
}

// loadConfig builds the effective configuration: defaults, then the
// config file, .env, environment and flags, then the legacy accounts
// file. The result is not verified.
func loadConfig(c *cli.Context) (*config.AgentConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{
		confloader.WithDotEnv(c.String("env-file")),
		confloader.WithOverrides(flagOverrides(c)),
	}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.ResolveAccounts(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadVerifiedConfig is loadConfig followed by config.Verify.
func loadVerifiedConfig(c *cli.Context) (*config.AgentConfig, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger and installs it as the default.
// Logs go to the app's error writer so stdout stays clean for results.
func newLogger(c *cli.Context, cfg *config.AgentConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}
