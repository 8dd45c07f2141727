package main

import (
	"fmt"
	"log/slog"

	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/logger"
	"github.com/fundloop/fundloop/internal/server"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var adminParams db.AdminParams

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema and seed the built-in roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(*gorm.DB) error { return nil })
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the first administrator",
	Long: `Create an administrator account. Nothing is created once any user exists.

Flags default to ADMIN_USERNAME, ADMIN_PASSWORD and ADMIN_EMAIL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(database *gorm.DB) error {
			created, err := db.CreateDefaultAdmin(database, adminParams)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("no admin created: credentials missing or users already exist")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q\n", adminParams.Username)
			return nil
		})
	},
}

func init() {
	env := db.AdminFromEnv()
	createAdminCmd.Flags().StringVar(&adminParams.Username, "username", env.Username, "Admin username")
	createAdminCmd.Flags().StringVar(&adminParams.Password, "password", env.Password, "Admin password")
	createAdminCmd.Flags().StringVar(&adminParams.Email, "email", env.Email, "Admin email")
}

// withDatabase opens and migrates the configured database, runs fn and closes it.
func withDatabase(fn func(*gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	database, err := server.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(database); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	return fn(database)
}
