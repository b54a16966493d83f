package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/event_ticket/internal/adapter/cache"
	"github.com/srgjo27/event_ticket/internal/core/authz"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/event_ticket/internal/core/services"
)

type issuanceFixture struct {
	eventRepo   *mocks.EventRepository
	ticketRepo  *mocks.TicketRepository
	paymentRepo *mocks.PaymentRepository
	codes       *mocks.CodeGenerator
	dispatcher  *mocks.FulfillmentDispatcher
	tx          *mocks.IssuanceTx
	redis       redismock.ClientMock
	service     *services.IssuanceService
}

func newIssuanceFixture(t *testing.T) *issuanceFixture {
	db, mockRedis := redismock.NewClientMock()
	f := &issuanceFixture{
		eventRepo:   mocks.NewEventRepository(t),
		ticketRepo:  mocks.NewTicketRepository(t),
		paymentRepo: mocks.NewPaymentRepository(t),
		codes:       mocks.NewCodeGenerator(t),
		dispatcher:  mocks.NewFulfillmentDispatcher(t),
		tx:          mocks.NewIssuanceTx(t),
		redis:       mockRedis,
	}
	f.service = services.NewIssuanceService(
		f.eventRepo, f.ticketRepo, f.paymentRepo, f.codes,
		authz.NewPolicy(nil), f.dispatcher,
		cache.NewReportCache(db, 0),
		services.IssuanceOptions{MaxCodeAttempts: 3, MaxPerIssuance: 20},
		zerolog.Nop(),
	)
	return f
}

// runTx makes WithIssuance execute the callback against the mocked transaction.
func (f *issuanceFixture) runTx() func(context.Context, func(ports.IssuanceTx) error) error {
	return func(ctx context.Context, fn func(ports.IssuanceTx) error) error {
		return fn(f.tx)
	}
}

func newEvent(capacity, sold int, price string) *domain.Event {
	return &domain.Event{
		ID:          uuid.New(),
		Name:        "Concierto",
		Capacity:    capacity,
		SoldCount:   sold,
		TicketPrice: decimal.RequireFromString(price),
		Status:      domain.EventPublished,
	}
}

func TestIssueTickets_Success(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 2, "25.50")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-AAAA0001", nil).Once()
	f.codes.On("Next").Return("APAE-AAAA0002", nil).Once()
	f.codes.On("Next").Return("APAE-AAAA0003", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 3).Return(5, nil)
	f.tx.On("InsertTicket", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil).Times(3)
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetVal(1)
	f.dispatcher.On("Dispatch", ctx, mock.AnythingOfType("[]domain.FulfillmentJob")).
		Return(domain.FulfillmentReport{Status: domain.FulfillmentQueued})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "Ana@Example.com",
		Quantity:   3,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 3)
	assert.Equal(t, 5, resp.SoldCount)
	assert.True(t, decimal.RequireFromString("76.50").Equal(resp.TotalPaid))
	for _, ticket := range resp.Tickets {
		assert.True(t, event.TicketPrice.Equal(ticket.PricePaid))
	}
	assert.Equal(t, domain.FulfillmentQueued, resp.Fulfillment.Status)
	assert.NoError(t, f.redis.ExpectationsWereMet())
}

func TestIssueTickets_BoundaryFillsCapacity(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(5, 4, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-LAST0001", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 1).Return(5, nil)
	f.tx.On("InsertTicket", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil).Once()
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetVal(1)
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(domain.FulfillmentReport{Status: domain.FulfillmentComplete})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.SoldCount)
}

func TestIssueTickets_Fail_InsufficientCapacity(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(5, 3, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   3,
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Remaining)
	f.ticketRepo.AssertNotCalled(t, "WithIssuance", mock.Anything, mock.Anything)
}

func TestIssueTickets_Fail_SoldOut(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(5, 5, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)

	_, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	assert.ErrorIs(t, err, domain.ErrSoldOut)
}

func TestIssueTickets_Fail_LostRaceAtReserve(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(5, 3, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-RACE0001", nil).Once()
	f.codes.On("Next").Return("APAE-RACE0002", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 2).
		Return(0, &domain.CapacityError{EventID: event.ID, Requested: 2, Remaining: 0})

	_, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   2,
	})

	assert.ErrorIs(t, err, domain.ErrSoldOut)
	f.tx.AssertNotCalled(t, "InsertTicket", mock.Anything, mock.Anything)
	f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestIssueTickets_Fail_InvalidQuantity(t *testing.T) {
	f := newIssuanceFixture(t)

	for _, q := range []int{0, -1, 21} {
		_, err := f.service.IssueTickets(context.Background(), services.IssueTicketsRequest{
			EventID:    uuid.NewString(),
			BuyerEmail: "ana@example.com",
			Quantity:   q,
		})

		assert.ErrorIs(t, err, domain.ErrValidation, "quantity %d", q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", q)
	}
}

func TestIssueTickets_Fail_MissingBuyer(t *testing.T) {
	f := newIssuanceFixture(t)

	_, err := f.service.IssueTickets(context.Background(), services.IssueTicketsRequest{
		EventID:  uuid.NewString(),
		Quantity: 1,
	})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "buyer_email", ve.Field)
}

func TestIssueTickets_Fail_EventNotFound(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	eventID := uuid.New()

	f.eventRepo.On("GetByID", ctx, eventID).Return(nil, domain.ErrEventNotFound)

	_, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    eventID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestIssueTickets_RetriesOnDuplicateCode(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-DUPE0001", nil).Once()
	f.codes.On("Next").Return("APAE-FRESH001", nil).Once()

	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx()).Twice()
	f.tx.On("Reserve", ctx, event.ID, 1).Return(1, nil).Twice()
	f.tx.On("InsertTicket", ctx, mock.MatchedBy(func(t *domain.Ticket) bool { return t.Code == "APAE-DUPE0001" })).
		Return(domain.ErrDuplicateCode).Once()
	f.tx.On("InsertTicket", ctx, mock.MatchedBy(func(t *domain.Ticket) bool { return t.Code == "APAE-FRESH001" })).
		Return(nil).Once()
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetVal(1)
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(domain.FulfillmentReport{Status: domain.FulfillmentComplete})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	require.NoError(t, err)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, "APAE-FRESH001", resp.Tickets[0].Code)
}

func TestIssueTickets_Fail_StorageError(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "10")
	storageErr := domain.StorageError("commit", errors.New("connection reset"))

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-AAAA0001", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(storageErr)

	_, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestIssueTickets_WithPayment(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "20")
	payment := &domain.Payment{
		ID:      uuid.New(),
		EventID: &event.ID,
		Amount:  decimal.RequireFromString("40"),
		Status:  domain.PaymentPaid,
	}

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.codes.On("Next").Return("APAE-PAID0001", nil).Once()
	f.codes.On("Next").Return("APAE-PAID0002", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 2).Return(2, nil)
	f.tx.On("ConsumePayment", ctx, payment.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("40"))
	})).Return(nil)
	f.tx.On("InsertTicket", ctx, mock.MatchedBy(func(t *domain.Ticket) bool {
		return t.PaymentID != nil && *t.PaymentID == payment.ID
	})).Return(nil).Twice()
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetVal(1)
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(domain.FulfillmentReport{Status: domain.FulfillmentComplete})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   2,
		PaymentID:  payment.ID.String(),
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40").Equal(resp.TotalPaid))
}

func TestIssueTickets_Fail_PaymentDoesNotCover(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "20")
	payment := &domain.Payment{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString("20"),
		Status: domain.PaymentPaid,
	}

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)

	_, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   2,
		PaymentID:  payment.ID.String(),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.ticketRepo.AssertNotCalled(t, "WithIssuance", mock.Anything, mock.Anything)
}

func TestIssueTickets_Fail_PaymentAlreadyConsumed(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 2, "15")
	payment := &domain.Payment{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString("30"),
		Status: domain.PaymentPaid,
	}
	exhausted := domain.NewPaymentBalanceError(decimal.Zero, decimal.RequireFromString("30"))

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.paymentRepo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	f.codes.On("Next").Return("APAE-RPLY0001", nil).Once()
	f.codes.On("Next").Return("APAE-RPLY0002", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 2).Return(4, nil)
	f.tx.On("ConsumePayment", ctx, payment.ID, mock.Anything).Return(exhausted)

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   2,
		PaymentID:  payment.ID.String(),
	})

	assert.Nil(t, resp)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "payment_id", ve.Field)
	f.tx.AssertNotCalled(t, "InsertTicket", mock.Anything, mock.Anything)
	f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestIssueTickets_Complimentary(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "99")
	admin := &domain.Identity{ID: "admin-1", Email: "admin@example.com", Roles: []string{domain.RoleAdmin}}

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-COMP0001", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 1).Return(1, nil)
	f.tx.On("InsertTicket", ctx, mock.MatchedBy(func(t *domain.Ticket) bool {
		return t.PricePaid.IsZero() && t.BuyerEmail == "admin@example.com" && t.UserID != nil && *t.UserID == "admin-1"
	})).Return(nil).Once()
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetVal(1)
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(domain.FulfillmentReport{Status: domain.FulfillmentComplete})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:       event.ID.String(),
		Quantity:      1,
		Complimentary: true,
		Caller:        admin,
	})

	require.NoError(t, err)
	assert.True(t, resp.TotalPaid.IsZero())
}

func TestIssueTickets_Fail_ComplimentaryForbidden(t *testing.T) {
	f := newIssuanceFixture(t)
	user := &domain.Identity{ID: "user-1", Email: "user@example.com", Roles: []string{domain.RoleUser}}

	_, err := f.service.IssueTickets(context.Background(), services.IssueTicketsRequest{
		EventID:       uuid.NewString(),
		Quantity:      1,
		Complimentary: true,
		Caller:        user,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssueTickets_DegradedFulfillmentKeepsTickets(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()
	event := newEvent(10, 0, "10")

	f.eventRepo.On("GetByID", ctx, event.ID).Return(event, nil)
	f.codes.On("Next").Return("APAE-DEGR0001", nil).Once()
	f.ticketRepo.On("WithIssuance", ctx, mock.Anything).Return(f.runTx())
	f.tx.On("Reserve", ctx, event.ID, 1).Return(1, nil)
	f.tx.On("InsertTicket", ctx, mock.Anything).Return(nil).Once()
	f.redis.ExpectDel(cache.ReportKey(event.ID)).SetErr(errors.New("redis down"))
	f.dispatcher.On("Dispatch", ctx, mock.Anything).Return(domain.FulfillmentReport{
		Status:   domain.FulfillmentDegraded,
		Failures: []domain.FulfillmentFailure{{Code: "APAE-DEGR0001", Stage: domain.StageQR, Error: "qr: upload failed"}},
	})

	resp, err := f.service.IssueTickets(ctx, services.IssueTicketsRequest{
		EventID:    event.ID.String(),
		BuyerEmail: "ana@example.com",
		Quantity:   1,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 1)
	assert.True(t, resp.Fulfillment.Degraded())
}
