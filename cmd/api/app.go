package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/srgjo27/event_ticket/internal/adapter/cache"
	"github.com/srgjo27/event_ticket/internal/adapter/notify"
	"github.com/srgjo27/event_ticket/internal/adapter/qr"
	"github.com/srgjo27/event_ticket/internal/adapter/repository/memory"
	"github.com/srgjo27/event_ticket/internal/adapter/repository/postgres"
	"github.com/srgjo27/event_ticket/internal/core/authz"
	"github.com/srgjo27/event_ticket/internal/core/codegen"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/core/services"
	"github.com/srgjo27/event_ticket/internal/platform/config"
	"github.com/srgjo27/event_ticket/internal/platform/database"
	"github.com/srgjo27/event_ticket/internal/platform/logger"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

// app holds the wired core shared by every subcommand.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	db       *sql.DB
	redis    *redis.Client
	events   ports.EventRepository
	tickets  ports.TicketRepository
	payments ports.PaymentRepository
	cache    ports.ReportCache
	policy   *authz.Policy

	fulfillment *services.FulfillmentService
}

func loadApp(cmd *cobra.Command) (*app, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	storage, _ := cmd.Flags().GetString("storage")

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log).With().Str("env", cfg.Env).Logger()

	a := &app{cfg: cfg, log: log, policy: authz.NewPolicy(grants(cfg.Authz))}

	switch storage {
	case storagePostgres:
		db, err := database.NewPostgresDB(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.events = postgres.NewEventRepository(db)
		a.tickets = postgres.NewTicketRepository(db)
		a.payments = postgres.NewPaymentRepository(db)

		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := a.redis.Ping(cmd.Context()).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		a.cache = cache.NewReportCache(a.redis, cfg.Redis.ReportTTL)
	case storageMemory:
		store := memory.NewStore()
		a.events = store
		a.tickets = store
		a.payments = store.Payments()
		a.cache = cache.Nop{}
		log.Warn().Msg("using in-memory storage; data is lost on exit")
	default:
		return nil, fmt.Errorf("unknown storage %q", storage)
	}

	a.fulfillment = services.NewFulfillmentService(a.tickets, a.imageGenerator(), a.notifier(), log)

	return a, nil
}

func (a *app) imageGenerator() ports.ImageGenerator {
	if a.cfg.Cloudinary.CloudName == "" {
		a.log.Warn().Msg("cloudinary not configured; QR images are inlined as data URLs")
		return qr.NewGenerator(qr.DataURLUploader{}, qr.DefaultSize)
	}

	uploader, err := qr.NewCloudinaryUploader(a.cfg.Cloudinary)
	if err != nil {
		a.log.Error().Err(err).Msg("cloudinary misconfigured; QR images are inlined as data URLs")
		return qr.NewGenerator(qr.DataURLUploader{}, qr.DefaultSize)
	}
	return qr.NewGenerator(uploader, qr.DefaultSize)
}

func (a *app) notifier() ports.Notifier {
	if a.cfg.SMTP.Host == "" {
		return notify.LogNotifier{Log: a.log}
	}
	return notify.NewEmailNotifier(a.cfg.SMTP, a.log)
}

func (a *app) issuance(dispatcher ports.FulfillmentDispatcher) *services.IssuanceService {
	return services.NewIssuanceService(
		a.events, a.tickets, a.payments,
		codegen.New(a.cfg.Tickets.CodePrefix, a.cfg.Tickets.CodeLength),
		a.policy, dispatcher, a.cache,
		services.IssuanceOptions{
			MaxCodeAttempts: a.cfg.Tickets.MaxCodeAttempts,
			MaxPerIssuance:  a.cfg.Tickets.MaxPerIssuance,
		},
		a.log,
	)
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *app) migrate(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	applied, err := database.Migrate(ctx, a.db, a.log)
	if err != nil {
		return err
	}
	a.log.Info().Int("applied", applied).Msg("schema up to date")
	return nil
}

func grants(raw map[string][]string) map[domain.Capability][]string {
	out := make(map[domain.Capability][]string, len(raw))
	for capability, roles := range raw {
		out[domain.Capability(capability)] = roles
	}
	return out
}
