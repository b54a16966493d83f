package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/platform/metrics"
	"github.com/srgjo27/event_ticket/pkg/validator"
)

type IssueTicketsRequest struct {
	EventID       string           `json:"event_id" validate:"required,uuid"`
	BuyerEmail    string           `json:"buyer_email" validate:"omitempty,email"`
	Quantity      int              `json:"quantity" validate:"gt=0"`
	PaymentID     string           `json:"payment_id,omitempty" validate:"omitempty,uuid"`
	Complimentary bool             `json:"complimentary,omitempty"`
	Caller        *domain.Identity `json:"-"`
}

type IssuedTicket struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	PricePaid decimal.Decimal `json:"price_paid"`
	QRURL     string          `json:"qr_url,omitempty"`
}

type IssueTicketsResponse struct {
	EventID     string                   `json:"event_id"`
	Tickets     []IssuedTicket           `json:"tickets"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	TotalPaid   decimal.Decimal          `json:"total_paid"`
	SoldCount   int                      `json:"sold_count"`
	Fulfillment domain.FulfillmentReport `json:"fulfillment"`
}

type IssuanceOptions struct {
	MaxCodeAttempts int
	MaxPerIssuance  int
}

type IssuanceService struct {
	eventRepo   ports.EventRepository
	ticketRepo  ports.TicketRepository
	paymentRepo ports.PaymentRepository
	codes       ports.CodeGenerator
	authz       ports.Authorizer
	dispatcher  ports.FulfillmentDispatcher
	cache       ports.ReportCache
	opts        IssuanceOptions
	log         zerolog.Logger
	now         func() time.Time
}

func NewIssuanceService(
	eventRepo ports.EventRepository,
	ticketRepo ports.TicketRepository,
	paymentRepo ports.PaymentRepository,
	codes ports.CodeGenerator,
	authz ports.Authorizer,
	dispatcher ports.FulfillmentDispatcher,
	cache ports.ReportCache,
	opts IssuanceOptions,
	log zerolog.Logger,
) *IssuanceService {
	if opts.MaxCodeAttempts < 1 {
		opts.MaxCodeAttempts = 3
	}
	return &IssuanceService{
		eventRepo:   eventRepo,
		ticketRepo:  ticketRepo,
		paymentRepo: paymentRepo,
		codes:       codes,
		authz:       authz,
		dispatcher:  dispatcher,
		cache:       cache,
		opts:        opts,
		log:         log.With().Str("component", "issuance").Logger(),
		now:         time.Now,
	}
}

type issuanceInput struct {
	eventID    uuid.UUID
	buyerEmail string
	userID     *string
	paymentID  *uuid.UUID
	quantity   int
}

func (s *IssuanceService) parse(ctx context.Context, req IssueTicketsRequest) (*issuanceInput, error) {
	if err := validator.Validate(ctx, req); err != nil {
		var fe *validator.FieldError
		if errors.As(err, &fe) {
			var cause error
			if fe.Field == "quantity" {
				cause = domain.ErrInvalidQuantity
			}
			return nil, domain.NewValidationError(fe.Field, fe.Message, cause)
		}
		return nil, domain.NewValidationError("request", err.Error(), nil)
	}

	if s.opts.MaxPerIssuance > 0 && req.Quantity > s.opts.MaxPerIssuance {
		return nil, domain.NewValidationError("quantity", "exceeds the per-purchase limit", domain.ErrInvalidQuantity)
	}

	in := &issuanceInput{
		eventID:    uuid.MustParse(req.EventID),
		buyerEmail: strings.ToLower(strings.TrimSpace(req.BuyerEmail)),
		quantity:   req.Quantity,
	}

	if req.Caller != nil && req.Caller.ID != "" {
		callerID := req.Caller.ID
		in.userID = &callerID
		if in.buyerEmail == "" {
			in.buyerEmail = strings.ToLower(req.Caller.Email)
		}
	}
	if in.buyerEmail == "" {
		return nil, domain.NewValidationError("buyer_email", "is required", nil)
	}

	if req.PaymentID != "" {
		id := uuid.MustParse(req.PaymentID)
		in.paymentID = &id
	}

	return in, nil
}

// IssueTickets creates exactly req.Quantity tickets and advances the event's sold
// count by the same amount, or creates none. Fulfillment runs after commit and
// can only degrade the result.
func (s *IssuanceService) IssueTickets(ctx context.Context, req IssueTicketsRequest) (*IssueTicketsResponse, error) {
	start := s.now()

	in, err := s.parse(ctx, req)
	if err != nil {
		metrics.IssuanceRejected("validation")
		return nil, err
	}

	if req.Complimentary {
		if err := s.authz.Authorize(req.Caller, domain.CapabilityIssueComplimentary); err != nil {
			metrics.IssuanceRejected("forbidden")
			return nil, err
		}
	}

	event, err := s.eventRepo.GetByID(ctx, in.eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			metrics.IssuanceRejected("event_not_found")
		}
		return nil, err
	}

	if err := event.CheckReservation(in.quantity); err != nil {
		s.reject(event, in.quantity, err)
		return nil, err
	}

	unitPrice := event.TicketPrice
	if req.Complimentary {
		unitPrice = decimal.Zero
	}
	totalPaid := unitPrice.Mul(decimal.NewFromInt(int64(in.quantity)))

	if in.paymentID != nil {
		payment, err := s.paymentRepo.GetByID(ctx, *in.paymentID)
		if err != nil {
			return nil, err
		}
		if err := payment.Covers(event.ID, totalPaid); err != nil {
			metrics.IssuanceRejected("payment")
			return nil, err
		}
	}

	var (
		tickets   []domain.Ticket
		soldCount int
	)
	for attempt := 1; ; attempt++ {
		tickets, err = s.buildBatch(event.ID, in, unitPrice)
		if err != nil {
			return nil, err
		}

		err = s.ticketRepo.WithIssuance(ctx, func(tx ports.IssuanceTx) error {
			sold, err := tx.Reserve(ctx, event.ID, in.quantity)
			if err != nil {
				return err
			}
			if in.paymentID != nil && totalPaid.IsPositive() {
				if err := tx.ConsumePayment(ctx, *in.paymentID, totalPaid); err != nil {
					return err
				}
			}
			for i := range tickets {
				if err := tx.InsertTicket(ctx, &tickets[i]); err != nil {
					return err
				}
			}
			soldCount = sold
			return nil
		})
		if err == nil {
			break
		}

		if errors.Is(err, domain.ErrDuplicateCode) && attempt < s.opts.MaxCodeAttempts {
			s.log.Warn().
				Str("event_id", event.ID.String()).
				Int("attempt", attempt).
				Msg("ticket code collision, regenerating batch")
			continue
		}

		if errors.Is(err, domain.ErrCapacityExceeded) {
			s.reject(event, in.quantity, err)
			return nil, err
		}
		if in.paymentID != nil && (errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrPaymentNotFound)) {
			metrics.IssuanceRejected("payment")
			s.log.Info().
				Str("event_id", event.ID.String()).
				Str("payment_id", in.paymentID.String()).
				Msg("payment balance does not cover issuance")
			return nil, err
		}

		s.log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Int("quantity", in.quantity).
			Msg("issuance transaction rolled back")
		metrics.IssuanceRejected("storage")
		return nil, err
	}

	metrics.TicketsIssued(event.ID.String(), in.quantity, s.now().Sub(start))
	s.log.Info().
		Str("event_id", event.ID.String()).
		Int("quantity", in.quantity).
		Int("sold_count", soldCount).
		Int("capacity", event.Capacity).
		Msg("tickets issued")

	if err := s.cache.Invalidate(ctx, event.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("failed to invalidate report cache")
	}

	report := s.dispatcher.Dispatch(ctx, domain.NewFulfillmentJobs(event, tickets))
	if report.Degraded() {
		s.log.Warn().
			Str("event_id", event.ID.String()).
			Int("failures", len(report.Failures)).
			Msg("tickets issued with pending fulfillment")
	}

	return newIssueTicketsResponse(event.ID, tickets, unitPrice, totalPaid, soldCount, report), nil
}

func (s *IssuanceService) buildBatch(eventID uuid.UUID, in *issuanceInput, unitPrice decimal.Decimal) ([]domain.Ticket, error) {
	createdAt := s.now()
	tickets := make([]domain.Ticket, 0, in.quantity)
	seen := make(map[string]struct{}, in.quantity)

	for len(tickets) < in.quantity {
		code, err := s.codes.Next()
		if err != nil {
			return nil, &domain.DependencyError{Stage: "codegen", Err: err}
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		tickets = append(tickets, domain.Ticket{
			ID:         uuid.New(),
			Code:       code,
			EventID:    eventID,
			UserID:     in.userID,
			BuyerEmail: in.buyerEmail,
			PaymentID:  in.paymentID,
			PricePaid:  unitPrice,
			Status:     domain.TicketIssued,
			CreatedAt:  createdAt,
		})
	}

	return tickets, nil
}

func (s *IssuanceService) reject(event *domain.Event, quantity int, err error) {
	reason := "insufficient_capacity"
	if errors.Is(err, domain.ErrSoldOut) {
		reason = "sold_out"
	} else if errors.Is(err, domain.ErrValidation) {
		reason = "validation"
	}
	metrics.IssuanceRejected(reason)

	s.log.Info().
		Str("event_id", event.ID.String()).
		Int("quantity", quantity).
		Str("reason", reason).
		Msg(err.Error())
}

func newIssueTicketsResponse(eventID uuid.UUID, tickets []domain.Ticket, unitPrice, totalPaid decimal.Decimal, soldCount int, report domain.FulfillmentReport) *IssueTicketsResponse {
	issued := make([]IssuedTicket, 0, len(tickets))
	for _, t := range tickets {
		issued = append(issued, IssuedTicket{
			ID:        t.ID.String(),
			Code:      t.Code,
			PricePaid: t.PricePaid,
			QRURL:     report.ImageURLs[t.Code],
		})
	}

	return &IssueTicketsResponse{
		EventID:     eventID.String(),
		Tickets:     issued,
		UnitPrice:   unitPrice,
		TotalPaid:   totalPaid,
		SoldCount:   soldCount,
		Fulfillment: report,
	}
}
