package main

import (
	"github.com/fundloop/fundloop/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

// @title Fundloop API
// @version 1.0
// @description Social fundraising API
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Fundloop API server",
	Long: `Start the Fundloop API server.

Examples:
  fundloop serve                # Use the configured port
  fundloop serve --port 9000    # Override port

Environment variables:
  FUNDLOOP_SERVER_PORT         Server port (default: 8080)
  FUNDLOOP_DATABASE_DRIVER     Database driver: sqlite, postgres
  FUNDLOOP_DATABASE_DSN        Database connection string
  FUNDLOOP_SESSION_TYPE        Session store: memory, valkey
  FUNDLOOP_MEDIA_TYPE          Media host: none, s3
  FUNDLOOP_PAYMENT_TYPE        Payment processor: none, stripe
  FUNDLOOP_AUTH_JWT_SECRET     JWT signing secret
  ADMIN_USERNAME               Bootstrap admin username
  ADMIN_PASSWORD               Bootstrap admin password`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunWithSignalHandling(server.Config{
			Port:    servePort,
			Version: Version,
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}
