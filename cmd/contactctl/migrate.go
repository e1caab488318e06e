package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolio-contact-backend/internal/repository/postgres"
	"portfolio-contact-backend/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and seed the admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DBUrl == "" {
				return errors.New("DATABASE_URL is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := database.NewPostgresPool(ctx, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Ping(ctx, pool); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}

			seed := postgres.AdminSeed{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword}
			if err := postgres.Migrate(ctx, pool, seed); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
