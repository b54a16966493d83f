package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/core/codegen"
	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
	"github.com/srgjo27/event_ticket/internal/platform/metrics"
)

type ScanTicketRequest struct {
	Code    string
	Scanner *domain.Identity
	Context domain.ScanContext
}

type ScanTicketResponse struct {
	TicketID    string    `json:"ticket_id"`
	Code        string    `json:"code"`
	ValidatedBy string    `json:"validated_by"`
	ValidatedAt time.Time `json:"validated_at"`
}

type ValidationService struct {
	ticketRepo ports.TicketRepository
	authz      ports.Authorizer
	cache      ports.ReportCache
	log        zerolog.Logger
	now        func() time.Time
}

func NewValidationService(ticketRepo ports.TicketRepository, authz ports.Authorizer, cache ports.ReportCache, log zerolog.Logger) *ValidationService {
	return &ValidationService{
		ticketRepo: ticketRepo,
		authz:      authz,
		cache:      cache,
		log:        log.With().Str("component", "validation").Logger(),
		now:        time.Now,
	}
}

// LookupTicket is the read-only pre-flight check. It never mutates the ticket.
func (s *ValidationService) LookupTicket(ctx context.Context, code string) (*domain.TicketView, error) {
	code = codegen.Normalize(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "is required", nil)
	}

	return s.ticketRepo.GetViewByCode(ctx, code)
}

// ScanTicket performs the one-time issued -> used transition and records who did it.
// Repeated scans of a used ticket fail with *domain.AlreadyUsedError and change nothing.
func (s *ValidationService) ScanTicket(ctx context.Context, req ScanTicketRequest) (*ScanTicketResponse, error) {
	if err := s.authz.Authorize(req.Scanner, domain.CapabilityScanTickets); err != nil {
		metrics.TicketScanned(metrics.ScanForbidden)
		return nil, err
	}

	code := codegen.Normalize(req.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "is required", nil)
	}

	log := s.log.With().Str("code", code).Str("scanner_id", req.Scanner.ID).Logger()

	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			metrics.TicketScanned(metrics.ScanNotFound)
			log.Info().Msg("scan of unknown ticket code")
		} else {
			metrics.TicketScanned(metrics.ScanError)
		}
		return nil, err
	}

	if err := ticket.CanCheckIn(); err != nil {
		metrics.TicketScanned(metrics.ScanAlreadyUsed)
		log.Info().Msg("ticket already used")
		return nil, err
	}

	scannedAt := s.now().UTC()
	validation := &domain.Validation{
		ID:        uuid.New(),
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		ScannerID: req.Scanner.ID,
		ScannedAt: scannedAt,
		Location:  req.Context.Location,
		Meta:      req.Context.Meta,
	}

	if err := s.ticketRepo.CheckIn(ctx, ticket.ID, validation); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, s.lostRace(ctx, code, log)
		}
		metrics.TicketScanned(metrics.ScanError)
		log.Error().Err(err).Msg("check-in transaction rolled back")
		return nil, err
	}

	metrics.TicketScanned(metrics.ScanSuccess)
	log.Info().Str("ticket_id", ticket.ID.String()).Msg("ticket checked in")

	if err := s.cache.Invalidate(ctx, ticket.EventID); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate report cache")
	}

	return &ScanTicketResponse{
		TicketID:    ticket.ID.String(),
		Code:        ticket.Code,
		ValidatedBy: req.Scanner.ID,
		ValidatedAt: scannedAt,
	}, nil
}

// lostRace re-reads a ticket whose conditional update matched no row so the
// caller gets the winner's validated_at and validated_by.
func (s *ValidationService) lostRace(ctx context.Context, code string, log zerolog.Logger) error {
	metrics.TicketScanned(metrics.ScanAlreadyUsed)
	log.Info().Msg("concurrent scan won the check-in")

	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		return &domain.AlreadyUsedError{Code: code}
	}
	if err := ticket.CanCheckIn(); err != nil {
		return err
	}
	return &domain.AlreadyUsedError{Code: code}
}
