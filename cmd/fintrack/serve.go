package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/events"
	"fintrack/internal/logging"
	"fintrack/internal/server"
	"fintrack/internal/services"

	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = 6 * time.Hour
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Duration("audit-retention", services.DefaultAuditRetention, "how long audit entries are kept")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	retention, _ := cmd.Flags().GetDuration("audit-retention")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.Default()

	db, err := database.Initialize(cfg, logging.WithComponent(logger, logging.ComponentDatabase))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", logging.Err(err))
		}
	}()

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	app := server.New(server.Dependencies{
		Config:    cfg,
		DB:        db.DB,
		Publisher: publisher,
		Logger:    logger,
		Version:   version,
	})
	app.Echo.Server.ReadTimeout = cfg.Server.ReadTimeout
	app.Echo.Server.WriteTimeout = cfg.Server.WriteTimeout
	app.Echo.Debug = cfg.IsDevelopment()

	go app.RateLimiter.Cleanup(ctx)
	go purgeLoop(ctx, app.Audit, retention, logger)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr, "environment", cfg.Server.Environment, "version", version)
		if err := app.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newPublisher connects to the broker when one is configured. Without an
// AMQP URL budget alerts are dropped.
func newPublisher(cfg config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Info("no AMQP_URL configured, budget alerts disabled")
		return events.NoopPublisher{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange, cfg.Queue,
		logging.WithComponent(logger, logging.ComponentEvents))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	return publisher, nil
}

// purgeLoop removes expired audit entries and tokens until ctx is done.
func purgeLoop(ctx context.Context, audit services.AuditServiceInterface, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		purge(audit, retention, logger)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func purge(audit services.AuditServiceInterface, retention time.Duration, logger *slog.Logger) {
	result, err := audit.PurgeExpired(retention)
	if err != nil {
		logger.Error("retention sweep failed", logging.Err(err))
		return
	}
	logger.Info("retention sweep finished",
		"audit_logs", result.AuditLogs,
		"refresh_tokens", result.RefreshTokens,
		"blacklisted_tokens", result.BlacklistedTokens)
}
