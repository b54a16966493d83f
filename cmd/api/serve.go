package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/srgjo27/event_ticket/internal/adapter/handler"
	"github.com/srgjo27/event_ticket/internal/adapter/identity"
	"github.com/srgjo27/event_ticket/internal/adapter/queue"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/core/services"
	"github.com/srgjo27/event_ticket/internal/platform/config"
	"github.com/srgjo27/event_ticket/internal/platform/messaging"
)

const localJWTSecret = "local-dev-secret"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				if err := a.migrate(cmd.Context()); err != nil {
					return err
				}
			}

			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log := a.cfg, a.log

	// The retry worker republishes in queue mode so the consumer stays the only deliverer.
	var dispatcher ports.FulfillmentDispatcher
	switch cfg.Fulfillment.Mode {
	case config.FulfillmentInline:
		dispatcher = a.fulfillment
	case config.FulfillmentQueue:
		rmq, err := messaging.NewRabbit(cfg.RabbitMQ, log)
		if err != nil {
			return err
		}
		defer rmq.Close()

		dispatcher = queue.NewDispatcher(rmq, log)
		worker := queue.NewWorker(rmq, a.fulfillment, log)
		worker.Start(ctx)
		defer worker.Stop()
	default:
		dispatcher = services.DisabledDispatcher{}
	}

	if cfg.Fulfillment.Mode != config.FulfillmentDisabled {
		go a.fulfillment.RunBackgroundRetry(ctx, retryPolicy(cfg.Fulfillment), dispatcher)
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		log.Warn().Msg("jwt.secret not set; using the local development secret")
		secret = localJWTSecret
	}
	resolver, err := identity.NewJWTResolver(secret, cfg.JWT.Issuer)
	if err != nil {
		return err
	}

	validation := services.NewValidationService(a.tickets, a.policy, a.cache, log)
	reports := services.NewReportService(a.events, a.tickets, a.policy, a.cache, log)
	events := services.NewEventService(a.events, a.policy, a.cache, log)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := handler.RouterDeps{
		Events:   handler.NewEventHandler(events),
		Tickets:  handler.NewTicketHandler(a.issuance(dispatcher), validation, reports),
		Resolver: resolver,
		Log:      log,
	}
	if a.db != nil {
		deps.DB = a.db
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("fulfillment", cfg.Fulfillment.Mode).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server exited")
	return nil
}

func retryPolicy(cfg config.FulfillmentConfig) services.RetryPolicy {
	return services.RetryPolicy{
		Interval:    cfg.RetryInterval,
		Grace:       cfg.RetryGrace,
		MaxAttempts: cfg.MaxAttempts,
		BatchSize:   cfg.BatchSize,
	}
}
