package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/core/ports"
)

type ReportService struct {
	eventRepo  ports.EventRepository
	ticketRepo ports.TicketRepository
	authz      ports.Authorizer
	cache      ports.ReportCache
	log        zerolog.Logger
}

func NewReportService(eventRepo ports.EventRepository, ticketRepo ports.TicketRepository, authz ports.Authorizer, cache ports.ReportCache, log zerolog.Logger) *ReportService {
	return &ReportService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		authz:      authz,
		cache:      cache,
		log:        log.With().Str("component", "report").Logger(),
	}
}

// GetEventReport may serve a cached rollup; it is not required to reflect in-flight transactions.
func (s *ReportService) GetEventReport(ctx context.Context, caller *domain.Identity, eventID string) (*domain.EventReport, error) {
	if err := s.authz.Authorize(caller, domain.CapabilityViewReports); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.NewValidationError("event_id", "must be a uuid", nil)
	}

	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("report cache unavailable")
	} else if cached != nil {
		return cached, nil
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, used, err := s.ticketRepo.CountByEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	report := domain.NewEventReport(event, total, used)

	if err := s.cache.Set(ctx, report); err != nil {
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("failed to cache report")
	}

	return report, nil
}
