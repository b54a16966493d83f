package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/event_ticket/internal/adapter/cache"
	"github.com/srgjo27/event_ticket/internal/core/authz"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/event_ticket/internal/core/services"
)

var staff = &domain.Identity{ID: "staff-1", Email: "staff@example.com", Roles: []string{domain.RoleStaff}}

func newValidationService(t *testing.T) (*services.ValidationService, *mocks.TicketRepository, redismock.ClientMock) {
	db, mockRedis := redismock.NewClientMock()
	ticketRepo := mocks.NewTicketRepository(t)
	service := services.NewValidationService(ticketRepo, authz.NewPolicy(nil), cache.NewReportCache(db, 0), zerolog.Nop())
	return service, ticketRepo, mockRedis
}

func issuedTicket(code string) *domain.Ticket {
	return &domain.Ticket{
		ID:         uuid.New(),
		Code:       code,
		EventID:    uuid.New(),
		BuyerEmail: "ana@example.com",
		Status:     domain.TicketIssued,
	}
}

func TestScanTicket_Success(t *testing.T) {
	service, ticketRepo, mockRedis := newValidationService(t)
	ctx := context.Background()
	ticket := issuedTicket("APAE-1234ABCD")

	ticketRepo.On("GetByCode", ctx, "APAE-1234ABCD").Return(ticket, nil)
	ticketRepo.On("CheckIn", ctx, ticket.ID, mock.MatchedBy(func(v *domain.Validation) bool {
		return v.TicketID == ticket.ID && v.EventID == ticket.EventID &&
			v.ScannerID == "staff-1" && v.Location == "Entrada principal"
	})).Return(nil)
	mockRedis.ExpectDel(cache.ReportKey(ticket.EventID)).SetVal(1)

	resp, err := service.ScanTicket(ctx, services.ScanTicketRequest{
		Code:    " apae-1234abcd ",
		Scanner: staff,
		Context: domain.ScanContext{Location: "Entrada principal"},
	})

	require.NoError(t, err)
	assert.Equal(t, ticket.ID.String(), resp.TicketID)
	assert.Equal(t, "staff-1", resp.ValidatedBy)
	assert.False(t, resp.ValidatedAt.IsZero())
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestScanTicket_Fail_AlreadyUsed(t *testing.T) {
	service, ticketRepo, _ := newValidationService(t)
	ctx := context.Background()
	validatedAt := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	ticket := issuedTicket("APAE-USED0001")
	require.NoError(t, ticket.MarkUsed("staff-0", validatedAt))

	ticketRepo.On("GetByCode", ctx, "APAE-USED0001").Return(ticket, nil)

	_, err := service.ScanTicket(ctx, services.ScanTicketRequest{Code: "APAE-USED0001", Scanner: staff})

	assert.ErrorIs(t, err, domain.ErrAlreadyUsed)
	var used *domain.AlreadyUsedError
	require.ErrorAs(t, err, &used)
	assert.Equal(t, "staff-0", used.ValidatedBy)
	assert.Equal(t, validatedAt, used.ValidatedAt)
	ticketRepo.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanTicket_Fail_LostRace(t *testing.T) {
	service, ticketRepo, _ := newValidationService(t)
	ctx := context.Background()
	ticket := issuedTicket("APAE-RACE0001")

	winner := *ticket
	require.NoError(t, winner.MarkUsed("staff-2", time.Now().UTC()))

	ticketRepo.On("GetByCode", ctx, "APAE-RACE0001").Return(ticket, nil).Once()
	ticketRepo.On("CheckIn", ctx, ticket.ID, mock.Anything).Return(domain.ErrConflict)
	ticketRepo.On("GetByCode", ctx, "APAE-RACE0001").Return(&winner, nil).Once()

	_, err := service.ScanTicket(ctx, services.ScanTicketRequest{Code: "APAE-RACE0001", Scanner: staff})

	var used *domain.AlreadyUsedError
	require.ErrorAs(t, err, &used)
	assert.Equal(t, "staff-2", used.ValidatedBy)
}

func TestScanTicket_Fail_NotFound(t *testing.T) {
	service, ticketRepo, _ := newValidationService(t)
	ctx := context.Background()

	ticketRepo.On("GetByCode", ctx, "APAE-NOPE0000").Return(nil, domain.ErrTicketNotFound)

	_, err := service.ScanTicket(ctx, services.ScanTicketRequest{Code: "APAE-NOPE0000", Scanner: staff})

	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestScanTicket_Fail_Forbidden(t *testing.T) {
	service, _, _ := newValidationService(t)
	user := &domain.Identity{ID: "user-1", Roles: []string{domain.RoleUser}}

	_, err := service.ScanTicket(context.Background(), services.ScanTicketRequest{Code: "APAE-1234ABCD", Scanner: user})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.ScanTicket(context.Background(), services.ScanTicketRequest{Code: "APAE-1234ABCD"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestScanTicket_Fail_EmptyCode(t *testing.T) {
	service, _, _ := newValidationService(t)

	_, err := service.ScanTicket(context.Background(), services.ScanTicketRequest{Code: "   ", Scanner: staff})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLookupTicket(t *testing.T) {
	service, ticketRepo, _ := newValidationService(t)
	ctx := context.Background()
	view := &domain.TicketView{Ticket: *issuedTicket("APAE-VIEW0001"), EventName: "Concierto"}

	ticketRepo.On("GetViewByCode", ctx, "APAE-VIEW0001").Return(view, nil)

	got, err := service.LookupTicket(ctx, "apae-view0001")

	require.NoError(t, err)
	assert.True(t, got.Valid())
	assert.Equal(t, "Concierto", got.EventName)
	ticketRepo.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything, mock.Anything)
}
