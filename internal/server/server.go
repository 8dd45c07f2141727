// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundloop/fundloop/internal/api"
	"github.com/fundloop/fundloop/internal/api/handlers"
	"github.com/fundloop/fundloop/internal/auth"
	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/logger"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/fundloop/fundloop/internal/session"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server configuration options.
type Config struct {
	Port    int    // Port to run the server on (0 = use config default)
	Version string // Version string to report
}

// Run starts the server with the given configuration and blocks until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	// Set version in handlers
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	// Load configuration
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from CLI flag if provided
	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}

	// Initialize logger
	logger.Init(appCfg.Log.Format, appCfg.Log.Level)
	slog.Info("Starting Fundloop server", "version", cfg.Version, "mode", appCfg.Server.Mode)

	database, err := Open(appCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(database); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	// Create default admin user if configured
	if _, err := db.CreateDefaultAdmin(database, db.AdminFromEnv()); err != nil {
		return fmt.Errorf("failed to create default admin user: %w", err)
	}

	sessions, err := createSessionStore(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer sessions.Close()
	slog.Info("Session store initialized", "type", appCfg.Session.Type)

	host, err := createMediaHost(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media host: %w", err)
	}
	slog.Info("Media host initialized", "type", appCfg.Media.Type)

	payments, err := createPaymentProcessor(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize payment processor: %w", err)
	}
	slog.Info("Payment processor initialized", "type", appCfg.Payment.Type)

	svc, err := service.New(database, host, payments, appCfg.Payment.Currency)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	tokens := auth.NewTokenIssuer(appCfg.Auth.JWTSecret, appCfg.Auth.TokenTTL)
	router := api.NewRouter(appCfg, api.Deps{
		DB:            database,
		Service:       svc,
		Authenticator: auth.NewAuthenticator(database, tokens, sessions, appCfg.Auth.SessionTTL),
		Guard:         auth.NewGuard(database, tokens, sessions, appCfg.Auth.SessionCookie),
	})

	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Fundloop exited")
	return nil
}

// RunWithSignalHandling starts the server and handles OS signals for graceful shutdown.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}

// createSessionStore creates a session store based on configuration.
func createSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Type {
	case "memory":
		return session.NewMemoryStore(), nil
	case "valkey":
		if cfg.Session.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey address is required when session type is valkey")
		}
		return session.NewValkeyStore(cfg.Session.ValkeyAddr)
	default:
		return nil, fmt.Errorf("unsupported session type: %s (supported: memory, valkey)", cfg.Session.Type)
	}
}

func createMediaHost(cfg *config.Config) (media.Host, error) {
	switch cfg.Media.Type {
	case "none":
		return media.NoneHost{}, nil
	case "s3":
		return media.NewS3Host(cfg.Media)
	default:
		return nil, fmt.Errorf("unsupported media type: %s (supported: none, s3)", cfg.Media.Type)
	}
}

func createPaymentProcessor(cfg *config.Config) (payment.Processor, error) {
	switch cfg.Payment.Type {
	case "none":
		return payment.None{}, nil
	case "stripe":
		return payment.NewStripe(cfg.Payment.SecretKey)
	default:
		return nil, fmt.Errorf("unsupported payment type: %s (supported: none, stripe)", cfg.Payment.Type)
	}
}
