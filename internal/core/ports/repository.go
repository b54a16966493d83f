package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, organizerID string) ([]domain.Event, error)
	// Update applies an admin edit. It fails with a validation error if the new
	// capacity is below the sold count at write time.
	Update(ctx context.Context, event *domain.Event) error
}

// CapacityLedger owns an event's capacity and sold_count counters.
type CapacityLedger interface {
	Remaining(ctx context.Context, eventID uuid.UUID) (int, error)
	// Reserve adds quantity to sold_count only if it still fits under capacity,
	// returning the new sold_count or a *domain.CapacityError with the actual remaining count.
	Reserve(ctx context.Context, eventID uuid.UUID, quantity int) (int, error)
}

// IssuanceTx is the scope of one issuance transaction.
type IssuanceTx interface {
	CapacityLedger
	InsertTicket(ctx context.Context, ticket *domain.Ticket) error
	// ConsumePayment draws amount from the payment's balance, failing with a
	// validation error when the unconsumed balance is smaller.
	ConsumePayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal) error
}

type TicketRepository interface {
	// WithIssuance runs fn in one transaction. Any error from fn rolls back every
	// reservation and insert made through tx.
	WithIssuance(ctx context.Context, fn func(tx IssuanceTx) error) error
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	GetViewByCode(ctx context.Context, code string) (*domain.TicketView, error)
	// CheckIn moves the ticket from issued to used and appends the validation row atomically.
	// It returns domain.ErrConflict when the ticket was no longer issued at write time.
	CheckIn(ctx context.Context, ticketID uuid.UUID, validation *domain.Validation) error
	UpdateQRURL(ctx context.Context, ticketID uuid.UUID, url string) error
	// ListPendingFulfillment returns jobs for unfulfilled tickets created before olderThan
	// with fewer than maxAttempts failures, least-attempted first.
	ListPendingFulfillment(ctx context.Context, olderThan time.Time, maxAttempts, limit int) ([]domain.FulfillmentJob, error)
	MarkFulfilled(ctx context.Context, ticketID uuid.UUID, at time.Time) error
	RecordFulfillmentFailure(ctx context.Context, ticketID uuid.UUID) error
	CountByEvent(ctx context.Context, eventID uuid.UUID) (total int, used int, err error)
	ListValidations(ctx context.Context, ticketID uuid.UUID) ([]domain.Validation, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
}
