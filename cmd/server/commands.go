package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/careerforge/careerforge-api/internal/config"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"github.com/careerforge/careerforge-api/internal/platform/postgres"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "careerforge",
		Short:         "Career assistance API with cached AI-generated content",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newArtifactCmd(opts),
	)
	return root
}

// load reads the dotenv file, loads configuration and installs the logger.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("failed to load %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return cfg, log, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("Server configuration loaded",
				"port", cfg.Server.Port,
				"log_level", cfg.Server.LogLevel,
				"store", cfg.Database.Driver,
				"redis_enabled", cfg.Redis.Enabled(),
				"refresh_enabled", cfg.Task.RefreshEnabled)

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.run(ctx)
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Run PostgreSQL schema migrations",
		Long:      "Run PostgreSQL schema migrations. SQLite stores create their schema on open.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}

			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrations(cmd.Context(), cfg, command, log)
		},
	}
}

func newArtifactCmd(opts *rootOptions) *cobra.Command {
	artifact := &cobra.Command{
		Use:   "artifact",
		Short: "Inspect and manage cached artifacts",
	}

	artifact.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the cached artifact stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					a, err := app.store.Find(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), a)
				})
			},
		},
		&cobra.Command{
			Use:   "invalidate <key>",
			Short: "Delete the cached artifact so the next read regenerates it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					if err := app.orchestrator.Invalidate(ctx, args[0]); err != nil {
						return err
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s\n", args[0])
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "refresh <industry>",
			Short: "Regenerate the insight record for an industry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					res, err := app.careerService.RefreshInsights(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), res.Artifact)
				})
			},
		},
	)

	return artifact
}

// withApplication builds the application, runs fn and releases resources.
func withApplication(ctx context.Context, opts *rootOptions, fn func(context.Context, *application) error) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return fn(ctx, app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
