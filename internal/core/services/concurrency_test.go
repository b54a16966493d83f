package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/event_ticket/internal/adapter/cache"
	"github.com/srgjo27/event_ticket/internal/adapter/repository/memory"
	"github.com/srgjo27/event_ticket/internal/core/authz"
	"github.com/srgjo27/event_ticket/internal/core/codegen"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/services"
	"github.com/srgjo27/event_ticket/internal/platform/config"
)

type engines struct {
	store      *memory.Store
	issuance   *services.IssuanceService
	validation *services.ValidationService
	reports    *services.ReportService
}

func newEngines() *engines {
	store := memory.NewStore()
	policy := authz.NewPolicy(nil)
	log := zerolog.Nop()
	return &engines{
		store: store,
		issuance: services.NewIssuanceService(
			store, store, store.Payments(), codegen.New(codegen.DefaultPrefix, codegen.DefaultLength),
			policy, services.DisabledDispatcher{}, cache.Nop{},
			services.IssuanceOptions{MaxCodeAttempts: 3}, log,
		),
		validation: services.NewValidationService(store, policy, cache.Nop{}, log),
		reports:    services.NewReportService(store, store, policy, cache.Nop{}, log),
	}
}

func (e *engines) seedEvent(t *testing.T, capacity, sold int) *domain.Event {
	event := &domain.Event{
		ID:          uuid.New(),
		Name:        "Festival",
		Capacity:    capacity,
		SoldCount:   sold,
		TicketPrice: decimal.RequireFromString("15"),
		Status:      domain.EventPublished,
	}
	require.NoError(t, e.store.Create(context.Background(), event))
	return event
}

func TestConcurrentIssuance_LastUnit(t *testing.T) {
	e := newEngines()
	event := e.seedEvent(t, 5, 4)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		soldOut   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.issuance.IssueTickets(context.Background(), services.IssueTicketsRequest{
				EventID:    event.ID.String(),
				BuyerEmail: "fan@example.com",
				Quantity:   1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, domain.ErrSoldOut) {
				soldOut++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, soldOut)

	stored, err := e.store.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.SoldCount)
	assert.Len(t, e.store.Tickets(event.ID), 1)
}

func TestConcurrentIssuance_NeverOversells(t *testing.T) {
	e := newEngines()
	event := e.seedEvent(t, 50, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, _ = e.issuance.IssueTickets(context.Background(), services.IssueTicketsRequest{
				EventID:    event.ID.String(),
				BuyerEmail: "fan@example.com",
				Quantity:   q,
			})
		}(i%3 + 1)
	}
	wg.Wait()

	stored, err := e.store.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	tickets := e.store.Tickets(event.ID)
	assert.LessOrEqual(t, stored.SoldCount, stored.Capacity)
	assert.Len(t, tickets, stored.SoldCount)

	codes := make(map[string]struct{}, len(tickets))
	for _, ticket := range tickets {
		codes[ticket.Code] = struct{}{}
	}
	assert.Len(t, codes, len(tickets))
}

func TestConcurrentScan_SingleWinner(t *testing.T) {
	e := newEngines()
	event := e.seedEvent(t, 10, 0)
	ctx := context.Background()

	resp, err := e.issuance.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "fan@example.com",
		Quantity:   1,
	})
	require.NoError(t, err)
	code := resp.Tickets[0].Code

	const scanners = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		losers  int
	)
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.validation.ScanTicket(ctx, services.ScanTicketRequest{Code: code, Scanner: staff})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if assert.ErrorIs(t, err, domain.ErrAlreadyUsed) {
				losers++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, scanners-1, losers)

	ticket, err := e.store.GetByCode(ctx, code)
	require.NoError(t, err)
	validations, err := e.store.ListValidations(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, validations, 1)
}

func TestIssueThenScanThenReport(t *testing.T) {
	e := newEngines()
	event := e.seedEvent(t, 100, 0)
	ctx := context.Background()

	resp, err := e.issuance.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "fan@example.com",
		Quantity:   3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 3)

	_, err = e.validation.ScanTicket(ctx, services.ScanTicketRequest{Code: resp.Tickets[0].Code, Scanner: staff})
	require.NoError(t, err)

	_, err = e.validation.ScanTicket(ctx, services.ScanTicketRequest{Code: resp.Tickets[0].Code, Scanner: staff})
	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)

	report, err := e.reports.GetEventReport(ctx, staff, event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Used)
	assert.Equal(t, 2, report.Remaining)
	assert.Equal(t, 97, report.Available)
}

func TestConcurrentIssuance_LoserSeesFreshRemaining(t *testing.T) {
	e := newEngines()
	event := e.seedEvent(t, 10, 0)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.issuance.IssueTickets(context.Background(), services.IssueTicketsRequest{
				EventID:    event.ID.String(),
				BuyerEmail: "fan@example.com",
				Quantity:   6,
			})
		}(i)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	require.Len(t, failed, 1, "exactly one of two 6-ticket requests fits in 10")

	var ce *domain.CapacityError
	require.True(t, errors.As(failed[0], &ce))
	assert.ErrorIs(t, failed[0], domain.ErrInsufficientCapacity)
	assert.Equal(t, 6, ce.Requested)
	assert.Equal(t, 4, ce.Remaining)

	got, err := e.store.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.SoldCount)
	assert.Len(t, e.store.Tickets(event.ID), 6)
}

func TestIssuance_PaymentCannotBeReplayed(t *testing.T) {
	e := newEngines()
	ctx := context.Background()
	event := e.seedEvent(t, 100, 0)
	paidAt := time.Now().UTC()
	payment := &domain.Payment{
		ID:      uuid.New(),
		EventID: &event.ID,
		Amount:  decimal.RequireFromString("30"),
		Status:  domain.PaymentPaid,
		PaidAt:  &paidAt,
	}
	require.NoError(t, e.store.Payments().Create(ctx, payment))

	req := services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "fan@example.com",
		Quantity:   2,
		PaymentID:  payment.ID.String(),
	}

	_, err := e.issuance.IssueTickets(ctx, req)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := e.issuance.IssueTickets(ctx, req)
		assert.ErrorIs(t, err, domain.ErrValidation, "replay %d", i+1)
	}

	got, err := e.store.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SoldCount)
	assert.Len(t, e.store.Tickets(event.ID), 2)
}

func TestIssuance_DefaultConfigHasNoPerPurchaseLimit(t *testing.T) {
	store := memory.NewStore()
	tickets := config.Default().Tickets
	issuance := services.NewIssuanceService(
		store, store, store.Payments(), codegen.New(tickets.CodePrefix, tickets.CodeLength),
		authz.NewPolicy(nil), services.DisabledDispatcher{}, cache.Nop{},
		services.IssuanceOptions{MaxCodeAttempts: tickets.MaxCodeAttempts, MaxPerIssuance: tickets.MaxPerIssuance},
		zerolog.Nop(),
	)
	event := &domain.Event{ID: uuid.New(), Name: "Estádio", Capacity: 30, Status: domain.EventPublished}
	require.NoError(t, store.Create(context.Background(), event))

	resp, err := issuance.IssueTickets(context.Background(), services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "fan@example.com",
		Quantity:   30,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 30)
	assert.Equal(t, 30, resp.SoldCount)
}
