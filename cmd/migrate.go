package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // postgres driver for goose
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"tourcab/config"
	"tourcab/db/pg"
	_ "tourcab/migration" // registers the Go migrations
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "migrate the booking database",
		Long:  `This command migrates the booking database schema with goose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			up, _ := cmd.Flags().GetBool("up")
			down, _ := cmd.Flags().GetBool("down")
			if down {
				up = false
			}
			ctx := context.Background()

			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("failed to set goose dialect: %w", err)
			}

			db, err := sql.Open("postgres", pg.CreateDSN())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			defer pingCancel()
			if err := db.PingContext(pingCtx); err != nil {
				return fmt.Errorf("failed to ping database: %w", err)
			}
			slog.Info("connected to the database")

			if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+config.AppName); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}

			migrationsDir := "migration"
			switch {
			case up:
				slog.Info("running up migrations")
				if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
					return fmt.Errorf("goose up failed: %w", err)
				}
			case down:
				slog.Info("rolling back the last migration")
				if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
					return fmt.Errorf("goose down failed: %w", err)
				}
			}
			return goose.StatusContext(ctx, db, migrationsDir)
		},
	}

	cmd.Flags().BoolP("up", "u", true, "apply all pending migrations")
	cmd.Flags().BoolP("down", "d", false, "roll back the last migration")
	cmd.MarkFlagsMutuallyExclusive("up", "down")

	return cmd
}
