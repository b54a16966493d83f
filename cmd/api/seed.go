package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/srgjo27/event_ticket/internal/adapter/identity"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/services"
)

type seedEvent struct {
	name     string
	location string
	capacity int
	price    string
	sold     int
	scanned  int
}

var demoEvents = []seedEvent{
	{name: "Festival de Verão", location: "Praia Central", capacity: 500, price: "120.00", sold: 6, scanned: 3},
	{name: "Conferência Tech", location: "Centro de Convenções", capacity: 120, price: "80.00", sold: 4, scanned: 1},
	{name: "Show Acústico", location: "Teatro Municipal", capacity: 2, price: "45.50", sold: 2, scanned: 0},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo events, payments, tickets and check-ins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.migrate(cmd.Context()); err != nil {
				return err
			}
			return seed(cmd, a)
		},
	}
}

func seed(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	admin := &domain.Identity{ID: "seed-admin", Email: "admin@example.com", Roles: []string{domain.RoleAdmin}}
	staff := &domain.Identity{ID: "seed-staff", Email: "portaria@example.com", Roles: []string{domain.RoleStaff}}

	events := services.NewEventService(a.events, a.policy, a.cache, a.log)
	issuance := a.issuance(services.DisabledDispatcher{})
	validation := services.NewValidationService(a.tickets, a.policy, a.cache, a.log)

	for _, demo := range demoEvents {
		starts := time.Now().Add(14 * 24 * time.Hour).Truncate(time.Hour)
		event, err := events.CreateEvent(ctx, admin, services.CreateEventRequest{
			Name:        demo.name,
			Location:    demo.location,
			StartsAt:    &starts,
			Capacity:    demo.capacity,
			TicketPrice: decimal.RequireFromString(demo.price),
			Status:      string(domain.EventPublished),
		})
		if err != nil {
			return fmt.Errorf("seed event %q: %w", demo.name, err)
		}

		payment := &domain.Payment{
			ID:          uuid.New(),
			EventID:     &event.ID,
			Provider:    "demo",
			ProviderRef: "seed-" + event.ID.String()[:8],
			Amount:      event.TicketPrice.Mul(decimal.NewFromInt(int64(demo.sold))),
			Currency:    "BRL",
			Status:      domain.PaymentPaid,
			CreatedAt:   time.Now().UTC(),
		}
		paidAt := payment.CreatedAt
		payment.PaidAt = &paidAt
		if err := a.payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("seed payment for %q: %w", demo.name, err)
		}

		issued, err := issuance.IssueTickets(ctx, services.IssueTicketsRequest{
			EventID:    event.ID.String(),
			BuyerEmail: "cliente@example.com",
			Quantity:   demo.sold,
			PaymentID:  payment.ID.String(),
		})
		if err != nil {
			return fmt.Errorf("seed tickets for %q: %w", demo.name, err)
		}

		for _, t := range issued.Tickets[:demo.scanned] {
			_, err := validation.ScanTicket(ctx, services.ScanTicketRequest{
				Code:    t.Code,
				Scanner: staff,
				Context: domain.ScanContext{Location: "Entrada principal", Meta: map[string]any{"device": "seed"}},
			})
			if err != nil {
				return fmt.Errorf("seed check-in %s: %w", t.Code, err)
			}
		}

		a.log.Info().
			Str("event_id", event.ID.String()).
			Str("event", event.Name).
			Int("issued", len(issued.Tickets)).
			Int("scanned", demo.scanned).
			Msg("seeded event")
	}

	secret := a.cfg.JWT.Secret
	if secret == "" {
		secret = localJWTSecret
	}
	resolver, err := identity.NewJWTResolver(secret, a.cfg.JWT.Issuer)
	if err != nil {
		return err
	}
	for _, who := range []*domain.Identity{admin, staff} {
		token, err := resolver.Mint(*who, 24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", who.Roles[0], token)
	}
	return nil
}
