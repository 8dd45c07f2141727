package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fundloop",
	Short: "Fundloop - social fundraising backend",
	Long:  `Fundloop serves the API behind posts, donations, chats and role-based moderation.`,
	Example: `  # Start the API server
  fundloop serve --port 8080

  # Bring the database schema up to date without serving
  fundloop migrate

  # Bootstrap an administrator
  fundloop create-admin --username admin --password s3cretpass`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "admin", Title: "Admin Commands:"},
	)

	serveCmd.GroupID = "server"
	migrateCmd.GroupID = "admin"
	createAdminCmd.GroupID = "admin"

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
