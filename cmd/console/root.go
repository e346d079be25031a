package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/app"
	"github.com/Domenick1991/dummydata/internal/console"
	"github.com/Domenick1991/dummydata/internal/logger"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dummy",
	Short: "Seed tables with dummy rows and inspect the database schema",
	Long: `
dummy fills the known tables with randomly generated rows and shows what the
connected database looks like: schemas, tables, views, columns and DDL.

Without a subcommand it starts the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *app.Deps) error {
			c := console.New(os.Stdin, os.Stdout, deps.Dummy, deps.Schema, console.WithLogger(deps.Log))
			return c.Run(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $CONFIG_PATH or ./config.yaml)")
}

// withDeps loads the config, wires the dependencies and runs fn under a
// context canceled on SIGINT or SIGTERM.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, deps *app.Deps) error) error {
	path := cfgFile
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	// the menu owns stdout, logs go to stderr
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer deps.Close()

	return fn(ctx, deps)
}
