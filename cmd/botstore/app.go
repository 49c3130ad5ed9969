package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/platform/logger"
	"github.com/phrazzld/botstore/internal/uow"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand once the root command's
// pre-run has loaded configuration.
type app struct {
	configFile string
	envFile    string
	output     string

	cfg    *config.Config
	logger *slog.Logger

	out    io.Writer
	errOut io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "botstore",
		Short:         "Manage the chat bot's accounts, sites and forms",
		Long:          `botstore reads and writes the bot's persistent store: accounts with their profiles, the sites they register and the forms on those sites.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Configuration file (YAML, JSON or TOML)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "Dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatJSON, "Output format: json or yaml")

	root.AddCommand(
		newMigrateCommand(a),
		newAccountCommand(a),
		newSiteCommand(a),
		newFormCommand(a),
		newConfigCommand(a),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "botstore %s (commit: %s)\n", version, commit)
			},
		},
	)

	return root
}

// init loads configuration and sets up logging. Log records go to the error
// stream so command output stays machine readable.
func (a *app) init(cmd *cobra.Command) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:      a.configFile,
		EnvFile:         a.envFile,
		EnvFileOptional: !cmd.Flags().Changed("env-file"),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log, a.errOut)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	slog.SetDefault(log)

	log.Debug("configuration loaded",
		slog.String("driver", cfg.Database.Driver),
		slog.String("mode", cfg.Dispatch.Mode),
		slog.String("log_level", cfg.Log.Level))

	a.cfg = cfg
	a.logger = log
	return nil
}

// withDispatcher opens a dispatcher for the duration of fn.
func (a *app) withDispatcher(ctx context.Context, fn func(ctx context.Context, d *uow.Dispatcher) error) error {
	d, err := uow.Open(ctx, *a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			a.logger.Warn("failed to close store", slog.String("error", err.Error()))
		}
	}()

	return fn(ctx, d)
}

func (a *app) print(v any) error {
	return writeOutput(a.out, a.output, v)
}
