package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type CodeGenerator interface {
	Next() (string, error)
}

type Authorizer interface {
	Authorize(identity *domain.Identity, capability domain.Capability) error
}

type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Identity, error)
}

// ImageGenerator turns a ticket code into a hosted image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, code string) (string, error)
}

type Notifier interface {
	SendTicket(ctx context.Context, notification domain.TicketNotification) error
}

// FulfillmentDispatcher runs the post-commit side effects of an issuance.
type FulfillmentDispatcher interface {
	Dispatch(ctx context.Context, jobs []domain.FulfillmentJob) domain.FulfillmentReport
}

// ReportCache returns (nil, nil) on a miss.
type ReportCache interface {
	Get(ctx context.Context, eventID uuid.UUID) (*domain.EventReport, error)
	Set(ctx context.Context, report *domain.EventReport) error
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}
