package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/repository"
)

const migrateTimeout = 2 * time.Minute

func newMigrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Long:      `Applies pending embedded migrations (up, the default) or rolls back the most recent ones (down).`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, got %d", steps)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()
			return runMigrate(ctx, cmd, direction, steps)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back with 'down'")
	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, direction string, steps int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closeLog := initLogger(cfg)
	defer closeLog()

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolOptions{MaxConns: 1})
	if err != nil {
		return fmt.Errorf("connect database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	defer repo.Close()

	var versions []int
	switch direction {
	case "down":
		versions, err = repo.Rollback(ctx, steps)
	default:
		versions, err = repo.Migrate(ctx)
	}
	if err != nil {
		logger.Error("migration failed", "direction", direction, "error", err)
		return err
	}

	current, err := repo.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	logger.Info("migration finished", "direction", direction, "versions", versions, "current_version", current)
	fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: %d migration(s), now at version %d\n", direction, len(versions), current)
	return nil
}
